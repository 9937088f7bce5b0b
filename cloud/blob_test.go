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

package cloud

import (
	"bytes"
	"context"
	"os"
	"testing"
)

func TestBlobRoundTrip(t *testing.T) {
	ctx := context.Background()
	defer os.RemoveAll("testbucket")
	for _, path := range []string{
		"mem://test/dir/wind.csv",
		"file://testbucket/dir/wind.csv",
	} {
		t.Run(path, func(t *testing.T) {
			want := []byte("0,10,270\n")
			if err := WriteBlob(ctx, path, bytes.NewReader(want)); err != nil {
				t.Fatal(err)
			}
			got, err := ReadBlob(ctx, path)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(got, want) {
				t.Errorf("have %q, want %q", got, want)
			}
		})
	}
}

func TestMemBucketShared(t *testing.T) {
	ctx := context.Background()
	b1, err := OpenBucket(ctx, "mem://shared")
	if err != nil {
		t.Fatal(err)
	}
	b2, err := OpenBucket(ctx, "mem://shared")
	if err != nil {
		t.Fatal(err)
	}
	if b1 != b2 {
		t.Error("mem buckets with the same name should be shared")
	}
}

func TestSplitURL(t *testing.T) {
	b, k, err := SplitURL("gs://bucket/a/b.geojson")
	if err != nil {
		t.Fatal(err)
	}
	if b != "gs://bucket" || k != "a/b.geojson" {
		t.Errorf("have %q %q", b, k)
	}
	for _, bad := range []string{"gs://bucket", "bucket/a", "://x"} {
		if _, _, err := SplitURL(bad); err == nil {
			t.Errorf("%q: expected error", bad)
		}
	}
}

func TestIsBlob(t *testing.T) {
	for path, want := range map[string]bool{
		"gs://a/b":   true,
		"s3://a/b":   true,
		"file://a/b": true,
		"mem://a/b":  true,
		"a/b":        false,
		"http://a/b": false,
	} {
		if IsBlob(path) != want {
			t.Errorf("%s: want %v", path, want)
		}
	}
}

func TestOpenBucketInvalid(t *testing.T) {
	if _, err := OpenBucket(context.Background(), "ftp://x"); err == nil {
		t.Error("expected error")
	}
}
