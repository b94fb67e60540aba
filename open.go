package rihap

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/brentp/vcfgo"
	"github.com/carbocation/pfx"
	"github.com/klauspost/compress/gzip"
	"gopkg.in/h2non/filetype.v1"
)

const gcsPrefix = "gs://"

// readCloser closes every layer stacked on top of a file.
type readCloser struct {
	io.Reader
	close func() error
}

func (r readCloser) Close() error {
	return r.close()
}

// openInput opens a VCF for reading. path may be "-" for stdin, a gs:// URL
// or a local file. Gzip and BGZF input is detected from the content and
// decompressed transparently.
func openInput(ctx context.Context, path string) (io.ReadCloser, error) {
	raw, err := openRaw(ctx, path)
	if err != nil {
		return nil, err
	}

	br := bufio.NewReaderSize(raw, 1<<16)

	// filetype needs at most 262 bytes to recognize any type. Shorter files
	// return an error from Peek along with everything they have.
	head, _ := br.Peek(262)
	kind, _ := filetype.Match(head)
	if kind.Extension != "gz" {
		return readCloser{Reader: br, close: raw.Close}, nil
	}

	// BGZF is a series of gzip members, which gzip reads as one stream.
	gz, err := gzip.NewReader(br)
	if err != nil {
		raw.Close()
		return nil, pfx.Err(fmt.Errorf("%s: %w", path, err))
	}

	return readCloser{Reader: gz, close: func() error {
		gz.Close()
		return raw.Close()
	}}, nil
}

func openRaw(ctx context.Context, path string) (io.ReadCloser, error) {
	switch {
	case path == "-":
		return io.NopCloser(os.Stdin), nil

	case strings.HasPrefix(path, gcsPrefix):
		bucket, object, err := splitGCSPath(path)
		if err != nil {
			return nil, err
		}

		client, err := storage.NewClient(ctx)
		if err != nil {
			return nil, pfx.Err(err)
		}

		r, err := client.Bucket(bucket).Object(object).NewReader(ctx)
		if err != nil {
			client.Close()
			return nil, pfx.Err(fmt.Errorf("%s: %w", path, err))
		}

		return readCloser{Reader: r, close: func() error {
			r.Close()
			return client.Close()
		}}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, pfx.Err(err)
	}
	return f, nil
}

func splitGCSPath(path string) (bucket, object string, err error) {
	parts := strings.SplitN(strings.TrimPrefix(path, gcsPrefix), "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", pfx.Err(fmt.Errorf("%s is not a gs://bucket/object path", path))
	}
	return parts[0], parts[1], nil
}

// fingerprint describes the file at path so that an index built from it can
// be recognized later. Stdin has no fingerprint.
func fingerprint(ctx context.Context, path string) (*Metadata, error) {
	if path == "-" {
		return nil, nil
	}

	if strings.HasPrefix(path, gcsPrefix) {
		return fingerprintGCS(ctx, path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, pfx.Err(err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer f.Close()

	head, err := readHead(f)
	if err != nil {
		return nil, pfx.Err(err)
	}

	return &Metadata{
		Filename:           filepath.Base(path),
		FileSize:           info.Size(),
		LastWriteTime:      Time(info.ModTime()),
		FirstThousandBytes: head,
	}, nil
}

func fingerprintGCS(ctx context.Context, path string) (*Metadata, error) {
	bucket, object, err := splitGCSPath(path)
	if err != nil {
		return nil, err
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer client.Close()

	obj := client.Bucket(bucket).Object(object)
	attrs, err := obj.Attrs(ctx)
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("%s: %w", path, err))
	}

	r, err := obj.NewRangeReader(ctx, 0, 1000)
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("%s: %w", path, err))
	}
	defer r.Close()

	head, err := readHead(r)
	if err != nil {
		return nil, pfx.Err(err)
	}

	return &Metadata{
		Filename:           filepath.Base(object),
		FileSize:           attrs.Size,
		LastWriteTime:      Time(attrs.Updated.Truncate(time.Second)),
		FirstThousandBytes: head,
	}, nil
}

func readHead(r io.Reader) ([]byte, error) {
	head := make([]byte, 1000)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, err
	}
	return head[:n], nil
}

// ReadHeader reads the VCF header at path.
func ReadHeader(ctx context.Context, path string) (*vcfgo.Header, error) {
	in, err := openInput(ctx, path)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	rdr, err := vcfgo.NewReader(in, true)
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("%s: %w", path, err))
	}

	return rdr.Header, nil
}
