/*
 * config.go, part of gocrystal.
 *
 * Copyright 2021 Raul Mera <rmeraatusachdotcl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

//Package config reads the YAML configuration of gulprun.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/rmera/gocrystal/gulp"
	"gopkg.in/yaml.v3"
)

//DefaultFiles are looked for, in order, when no configuration file is given.
var DefaultFiles = []string{"gulprun.yaml", ".gulprun.yaml"}

//Config contains the settings for gulprun. The GULP ones map to
//gulp.Handle and gulp.Calc.
type Config struct {
	Executable string            `yaml:"executable"`
	WorkDir    string            `yaml:"workdir"`
	Label      string            `yaml:"label"`
	Forcefield string            `yaml:"forcefield"`
	Passes     []gulp.Mode       `yaml:"passes"`
	Steps      int               `yaml:"steps"`
	Pressure   *float64          `yaml:"pressure"` //GPa, omit for none
	Symmetry   bool              `yaml:"symmetry"`
	Labels     map[string]string `yaml:"labels"`
	Dump       string            `yaml:"dump"`
	Keep       bool              `yaml:"keep"`
	Archive    bool              `yaml:"archive"`
	Adjust     bool              `yaml:"adjust"`
	Timeout    time.Duration     `yaml:"timeout"`
	Workers    int               `yaml:"workers"`
	StrictExit bool              `yaml:"strict_exit"`
	LogLevel   string            `yaml:"log_level"`  //debug, info, warn or error
	LogFormat  string            `yaml:"log_format"` //console or json
}

//DefaultConfig returns the configuration used when there is no file.
func DefaultConfig() *Config {
	return &Config{
		Executable: "gulp",
		WorkDir:    "tmp",
		Label:      "_",
		Forcefield: "reax",
		Passes:     []gulp.Mode{gulp.ConstantPressure, gulp.ConstantPressure},
		Steps:      gulp.DefaultSteps,
		Adjust:     true,
		Workers:    1,
		LogLevel:   "info",
		LogFormat:  "console",
	}
}

//Load reads the configuration in path, on top of the defaults. With an
//empty path, the DefaultFiles are tried, and if none exists the defaults
//are returned.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	var data []byte
	var err error
	if path != "" {
		if data, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	} else {
		for _, name := range DefaultFiles {
			data, err = os.ReadFile(name)
			if err == nil {
				path = name
				break
			}
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("reading config file %s: %w", name, err)
			}
		}
		if path == "" {
			return cfg, nil
		}
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

//Validate checks for values GULP or gulprun cannot work with.
func (c *Config) Validate() error {
	switch {
	case c.Executable == "":
		return errors.New("executable is empty")
	case c.Forcefield == "":
		return errors.New("forcefield is empty")
	case c.Steps < 0:
		return fmt.Errorf("negative steps %d", c.Steps)
	case c.Timeout < 0:
		return fmt.Errorf("negative timeout %s", c.Timeout)
	case c.Workers < 0:
		return fmt.Errorf("negative workers %d", c.Workers)
	}
	switch c.LogFormat {
	case "", "console", "json":
	default:
		return fmt.Errorf("unknown log_format %q, expected console or json", c.LogFormat)
	}
	return nil
}

//Calc returns the GULP settings for the first pass.
func (c *Config) Calc() *gulp.Calc {
	Q := &gulp.Calc{
		Forcefield: c.Forcefield,
		Opt:        gulp.ConstantPressure,
		Steps:      c.Steps,
		Symmetry:   c.Symmetry,
		Dump:       c.Dump,
		Timeout:    c.Timeout,
		StrictExit: c.StrictExit,
	}
	if len(c.Passes) > 0 {
		Q.Opt = c.Passes[0]
	}
	if c.Pressure != nil {
		p := *c.Pressure
		Q.Pressure = &p
	}
	if len(c.Labels) > 0 {
		Q.Labels = make(map[string]string, len(c.Labels))
		for k, v := range c.Labels {
			Q.Labels[k] = v
		}
	}
	return Q
}

//Handle returns a gulp.Handle with the program and file settings.
func (c *Config) Handle() *gulp.Handle {
	H := gulp.NewHandle()
	H.SetCommand(c.Executable)
	H.SetWorkDir(c.WorkDir)
	if c.Label != "" {
		H.SetName(c.Label)
	}
	H.SetKeep(c.Keep, c.Archive)
	return H
}
