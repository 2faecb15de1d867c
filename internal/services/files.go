package services

// 文件存储边界：接收上传字节流并返回不透明的存储引用字符串，
// 核心只按引用记录与删除，从不经手二进制内容。
// 后端二选一：本地磁盘（默认）或 S3 兼容对象存储（MinIO）。

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"newsdesk/internal/config"
)

// FileStore 抽象图片文件的持久化与删除。
type FileStore interface {
	// Save 持久化字节流，name 仅作扩展名提示；返回存储引用。
	Save(ctx context.Context, r io.Reader, name string) (string, error)
	// Remove 删除引用指向的文件；文件缺失返回错误，由调用方决定是否忽略。
	Remove(ctx context.Context, ref string) error
}

// NewFileStore 按配置构建文件存储后端。
func NewFileStore(cfg config.Config) (FileStore, error) {
	switch cfg.Media.Backend {
	case "", "local":
		return NewLocalStore(cfg.Media.Dir)
	case "minio":
		return NewMinioStore(cfg.Media)
	default:
		return nil, fmt.Errorf("unknown media backend %q", cfg.Media.Backend)
	}
}

// storedName 生成随机化的存储名：uuid + 原始扩展名（仅保留安全扩展名）。
func storedName(hint string) string {
	ext := strings.ToLower(filepath.Ext(hint))
	if len(ext) > 8 || strings.ContainsAny(ext, "/\\") {
		ext = ""
	}
	return uuid.NewString() + ext
}

// LocalStore 将文件保存到本地媒体目录。
type LocalStore struct{ dir string }

func NewLocalStore(dir string) (*LocalStore, error) {
	if dir == "" {
		dir = "media"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

// Dir 返回媒体目录，供 HTTP 层挂载静态访问。
func (s *LocalStore) Dir() string { return s.dir }

func (s *LocalStore) Save(_ context.Context, r io.Reader, name string) (string, error) {
	ref := storedName(name)
	f, err := os.Create(filepath.Join(s.dir, ref))
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return "", err
	}
	return ref, nil
}

func (s *LocalStore) Remove(_ context.Context, ref string) error {
	// 引用是纯文件名；拒绝路径成分，避免越出媒体目录
	if ref != filepath.Base(ref) {
		return fmt.Errorf("invalid file reference %q", ref)
	}
	return os.Remove(filepath.Join(s.dir, ref))
}

// MinioStore 将文件保存到 S3 兼容对象存储。
type MinioStore struct {
	client *minio.Client
	bucket string
}

func NewMinioStore(cfg config.MediaConfig) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}
	return &MinioStore{client: client, bucket: cfg.Bucket}, nil
}

// ensureBucket 创建桶；桶已存在（并归本端所有）时不视为错误。
func (s *MinioStore) ensureBucket(ctx context.Context) error {
	err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
	if err != nil {
		exists, errExists := s.client.BucketExists(ctx, s.bucket)
		if errExists == nil && exists {
			return nil
		}
		return err
	}
	return nil
}

func (s *MinioStore) Save(ctx context.Context, r io.Reader, name string) (string, error) {
	if err := s.ensureBucket(ctx); err != nil {
		return "", err
	}
	ref := storedName(name)
	_, err := s.client.PutObject(ctx, s.bucket, ref, r, -1, minio.PutObjectOptions{ContentType: "application/octet-stream"})
	if err != nil {
		return "", err
	}
	return ref, nil
}

func (s *MinioStore) Remove(ctx context.Context, ref string) error {
	return s.client.RemoveObject(ctx, s.bucket, ref, minio.RemoveObjectOptions{})
}
