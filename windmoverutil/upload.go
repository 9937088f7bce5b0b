/*
Copyright © 2026 the windmover authors.
This file is part of windmover.

windmover is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

windmover is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with windmover.  If not, see <http://www.gnu.org/licenses/>.
*/

package windmoverutil

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spatialmodel/windmover/cloud"
)

type uploader struct {
	// files is a set of file path pairs. The first of each pair
	// is a local file path and the second is a blob storage
	// path where it should be uploaded to.
	files [][2]string

	// templates holds local and blob storage file templates
	// whose expanded files are only known after the run.
	templates [][2]string

	err error
	dir string
}

// maybeUpload checks whether the given output file path refers to
// a blob storage location. If it does, then a temporary file location
// is returned. The file will then be uploaded to blob storage when
// uploadOutput method is run.
func (u *uploader) maybeUpload(p string) string {
	local, ok := u.local(p)
	if ok {
		u.files = append(u.files, [2]string{local, p})
	}
	return local
}

// maybeUploadTemplate is like maybeUpload but for a template that expands
// into several files. The files written from the returned local template
// must be passed to uploadOutput.
func (u *uploader) maybeUploadTemplate(template string) string {
	local, ok := u.local(template)
	if ok {
		u.templates = append(u.templates, [2]string{local, template})
	}
	return local
}

func (u *uploader) local(p string) (string, bool) {
	if u.err != nil {
		return "", false
	}
	if !cloud.IsBlob(p) {
		return p, false
	}
	if u.dir == "" {
		u.dir, u.err = os.MkdirTemp("", "windmover")
		if u.err != nil {
			return "", false
		}
	}
	return filepath.Join(u.dir, path.Base(p)), true
}

// uploadOutput uploads the registered files, plus any of written that were
// expanded from a registered template, to blob storage. The local copies
// are removed once every upload has succeeded.
func (u *uploader) uploadOutput(ctx context.Context, written []string) error {
	if u.err != nil {
		return u.err
	}
	files := append([][2]string(nil), u.files...)
	for _, w := range written {
		for _, t := range u.templates {
			if filepath.Dir(w) != filepath.Dir(t[0]) {
				continue
			}
			files = append(files, [2]string{w, strings.TrimSuffix(t[1], path.Base(t[1])) + filepath.Base(w)})
			break
		}
	}
	for _, f := range files {
		if err := upload(ctx, f[0], f[1]); err != nil {
			return err
		}
	}
	if u.dir == "" {
		return nil
	}
	if err := os.RemoveAll(u.dir); err != nil {
		return fmt.Errorf("windmover: removing temporary output directory: %v", err)
	}
	u.dir = ""
	return nil
}

func upload(ctx context.Context, local, remote string) error {
	r, err := os.Open(local)
	if err != nil {
		return fmt.Errorf("windmover: opening file '%s' for upload: %s", local, err)
	}
	defer r.Close()
	if err := cloud.WriteBlob(ctx, remote, r); err != nil {
		return fmt.Errorf("windmover: uploading file '%s' to '%s': %s", local, remote, err)
	}
	return nil
}
