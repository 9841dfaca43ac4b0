// Package storage は商品・トッピング画像の保存先。
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrUnsupportedType = errors.New("only jpeg, jpg, png and gif images are allowed")
	ErrTooLarge        = errors.New("image is too large")
)

var allowedExt = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".gif":  true,
}

// ローカルディスクに保存。URLは "/uploads/<file>"
type LocalStorage struct {
	dir      string
	urlBase  string
	maxBytes int64
}

func NewLocalStorage(dir string, maxBytes int64) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStorage{dir: dir, urlBase: "/uploads", maxBytes: maxBytes}, nil
}

func (s *LocalStorage) Dir() string { return s.dir }

// CheckImage はアップロードを受け取る前の確認（拡張子とサイズ）。
func CheckImage(filename string, size, maxBytes int64) error {
	if !allowedExt[strings.ToLower(filepath.Ext(filename))] {
		return ErrUnsupportedType
	}
	if maxBytes > 0 && size > maxBytes {
		return ErrTooLarge
	}
	return nil
}

// Save は拡張子とサイズを確認して保存し、公開パスを返す。
func (s *LocalStorage) Save(ctx context.Context, originalName string, src io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !allowedExt[ext] {
		return "", ErrUnsupportedType
	}

	name := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("create image: %w", err)
	}
	defer dst.Close()

	// 1バイト多く読めたら上限超え
	n, err := io.Copy(dst, io.LimitReader(src, s.maxBytes+1))
	if err == nil && n > s.maxBytes {
		err = ErrTooLarge
	}
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		_ = os.Remove(dst.Name())
		return "", err
	}
	return s.urlBase + "/" + name, nil
}

// Delete は公開パスのファイルを消す。無ければ何もしない。
func (s *LocalStorage) Delete(_ context.Context, publicPath string) error {
	if publicPath == "" {
		return nil
	}
	name := filepath.Base(publicPath)
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
