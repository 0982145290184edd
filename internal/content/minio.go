package content

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioSource 对象存储中的内容包，Prefix 相当于根目录
type MinioSource struct {
	Client *minio.Client
	Bucket string
	Prefix string
}

func NewMinioSource(endpoint, accessKey, secretKey, bucket, prefix string, useSSL bool) (*MinioSource, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}
	return &MinioSource{Client: client, Bucket: bucket, Prefix: strings.Trim(prefix, "/")}, nil
}

func (s *MinioSource) key(name string) string {
	if s.Prefix == "" {
		return strings.TrimPrefix(name, "/")
	}
	return path.Join(s.Prefix, name)
}

func (s *MinioSource) List(ctx context.Context, dir string) ([]Entry, error) {
	prefix := s.key(dir)
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	var entries []Entry
	for obj := range s.Client.ListObjects(ctx, s.Bucket, minio.ListObjectsOptions{Prefix: prefix}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		name := strings.TrimPrefix(obj.Key, prefix)
		isDir := strings.HasSuffix(name, "/")
		name = strings.TrimSuffix(name, "/")
		if name == "" || strings.HasPrefix(name, ".") {
			continue
		}
		entries = append(entries, Entry{Name: name, IsDir: isDir})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

func (s *MinioSource) Read(ctx context.Context, name string) ([]byte, error) {
	obj, err := s.Client.GetObject(ctx, s.Bucket, s.key(name), minio.GetObjectOptions{})
	if err != nil {
		return nil, s.translate(name, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, s.translate(name, err)
	}
	return data, nil
}

func (s *MinioSource) translate(name string, err error) error {
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return fmt.Errorf("%s: %w", name, fs.ErrNotExist)
	}
	return err
}

func (s *MinioSource) Describe() string {
	return fmt.Sprintf("minio:%s/%s", s.Bucket, s.Prefix)
}
