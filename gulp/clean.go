/*
 * clean.go, part of gocrystal.
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

package gulp

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	xtal "github.com/rmera/gocrystal"
	"go.uber.org/zap"
)

//Clean removes the input, the output and, if Q asks for one, the dump file.
//Files that are not there are ignored.
func (H *Handle) Clean(Q *Calc) error {
	files := []string{H.InputName(), H.OutputName()}
	if Q != nil && Q.Dump != "" {
		files = append(files, Q.Dump)
	}
	var failed []string
	for _, f := range files {
		if err := os.Remove(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			failed = append(failed, err.Error())
		}
	}
	if len(failed) > 0 {
		return Error{ErrCleanUp, GULP, H.InputName(), strings.Join(failed, "; "), []string{"Clean"}, false}
	}
	return nil
}

//Archive compresses the output with zstd into OutputName()+".zst" and
//removes the uncompressed file. It returns the name of the new file.
func (H *Handle) Archive() (string, error) {
	name := H.OutputName()
	target := name + ".zst"
	if err := compressFile(name, target); err != nil {
		os.Remove(target)
		return "", Error{ErrArchive, GULP, H.InputName(), err.Error(), []string{"compressFile", "Archive"}, false}
	}
	if err := os.Remove(name); err != nil {
		return target, Error{ErrArchive, GULP, H.InputName(), err.Error(), []string{"os.Remove", "Archive"}, false}
	}
	logger.Debug("archived GULP output", zap.String("file", target))
	return target, nil
}

func compressFile(name, target string) error {
	in, err := os.Open(name)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(target)
	if err != nil {
		return err
	}
	defer out.Close()
	zw, err := zstd.NewWriter(out, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return err
	}
	if _, err := io.Copy(zw, in); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

//readCloser closes the decompressor and the file below it.
type readCloser struct {
	io.Reader
	closers []func() error
}

func (r *readCloser) Close() error {
	var first error
	for _, c := range r.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

//openReport opens a GULP output. Files ending in .zst or .gz are
//decompressed on the fly.
func openReport(name string) (io.ReadCloser, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".zst":
		d, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		return &readCloser{d, []func() error{func() error { d.Close(); return nil }, f.Close}}, nil
	case ".gz":
		g, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		return &readCloser{g, []func() error{g.Close, f.Close}}, nil
	}
	return f, nil
}

//ReadReportFile parses the GULP output in the file name, which can be
//compressed (.zst or .gz). The returned error is only set when the file
//cannot be opened, parsing problems go to the Result.
func ReadReportFile(name string, S *xtal.Structure, Q *Calc) (*Result, error) {
	rc, err := openReport(name)
	if err != nil {
		return nil, Error{ErrParse, GULP, name, err.Error(), []string{"openReport", "ReadReportFile"}, true}
	}
	defer rc.Close()
	return ParseReport(rc, name, S, Q), nil
}

//CompressReport writes the report in name to target, compressed with gzip
//or zstd depending on the extension of target (.gz or .zst).
func CompressReport(name, target string) error {
	if strings.ToLower(filepath.Ext(target)) == ".zst" {
		return compressFile(name, target)
	}
	in, err := os.Open(name)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(target)
	if err != nil {
		return err
	}
	defer out.Close()
	gw, err := gzip.NewWriterLevel(out, gzip.BestCompression)
	if err != nil {
		return err
	}
	if _, err := io.Copy(gw, in); err != nil {
		gw.Close()
		return err
	}
	return gw.Close()
}
