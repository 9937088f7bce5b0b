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
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/windmover/cloud"
)

// downloadRetries is the number of times a failed HTTP download is retried.
var downloadRetries uint64 = 3

// maybeDownload checks if the input is an existing file locally.
// If not, it checks if the file is a URL or a blob storage location.
// If it is, it downloads the file to a temporary directory and
// returns the path to the downloaded file.
func maybeDownload(ctx context.Context, p string, log logrus.FieldLogger) (string, error) {
	// Check if local file exists. If it does, return the given path.
	if _, err := os.Stat(p); err == nil {
		return p, nil
	}
	switch {
	case strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://"):
		return downloadHTTP(ctx, p, log)
	case cloud.IsBlob(p):
		return downloadBlob(ctx, p)
	}
	return p, nil
}

// downloadHTTP downloads a file from the specified URL, retrying
// transient failures, and returns the path to the downloaded file.
func downloadHTTP(ctx context.Context, p string, log logrus.FieldLogger) (string, error) {
	u, err := url.Parse(p)
	if err != nil {
		return p, fmt.Errorf("windmover: parsing download URL: %v", err)
	}
	var body []byte
	err = backoff.RetryNotify(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, p, nil)
			if err != nil {
				return backoff.Permanent(err)
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			switch {
			case resp.StatusCode >= 500:
				return fmt.Errorf("downloading %s: %s", p, resp.Status)
			case resp.StatusCode != http.StatusOK:
				return backoff.Permanent(fmt.Errorf("downloading %s: %s", p, resp.Status))
			}
			body, err = io.ReadAll(resp.Body)
			return err
		},
		backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), downloadRetries), ctx),
		func(err error, d time.Duration) {
			log.WithFields(logrus.Fields{"url": p}).Warnf("%v: retrying in %v", err, d)
		},
	)
	if err != nil {
		return p, fmt.Errorf("windmover: %v", err)
	}
	return writeTemp(path.Base(u.Path), body)
}

// downloadBlob downloads the specified file from blob storage.
func downloadBlob(ctx context.Context, p string) (string, error) {
	b, err := cloud.ReadBlob(ctx, p)
	if err != nil {
		return p, fmt.Errorf("windmover: %v", err)
	}
	return writeTemp(path.Base(p), b)
}

// writeTemp writes b to a file named name in a new temporary directory.
func writeTemp(name string, b []byte) (string, error) {
	dir, err := os.MkdirTemp("", "windmover")
	if err != nil {
		return "", fmt.Errorf("windmover: creating temporary download directory: %v", err)
	}
	if name == "" || name == "/" || name == "." {
		name = "download"
	}
	f := filepath.Join(dir, name)
	if err = os.WriteFile(f, b, 0644); err != nil {
		return "", fmt.Errorf("windmover: saving download: %v", err)
	}
	return f, nil
}
