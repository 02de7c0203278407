// Package local_fs 提供附件的本地文件系统存储
package local_fs

import (
	"io"
	"os"
	"path/filepath"

	"github.com/haierkeys/versioned-notes-service/pkg/fileurl"
)

type Config struct {
	// SavePath 附件保存根目录
	SavePath string `yaml:"save-path" default:"storage/uploads"`
}

// LocalFS stores attachment payloads under a single root directory.
// LocalFS 将附件内容保存到单一根目录下。
type LocalFS struct {
	config *Config
}

func NewClient(cfg *Config) (*LocalFS, error) {
	if err := fileurl.CreatePath(cfg.SavePath, os.ModePerm); err != nil {
		return nil, err
	}
	return &LocalFS{config: cfg}, nil
}

// SavePath 返回存储根目录
func (l *LocalFS) SavePath() string {
	return l.config.SavePath
}

// Save writes src to a file named storedName and returns the storage path
// relative to the save root.
// Save 将 src 写入名为 storedName 的文件，返回相对存储路径。
func (l *LocalFS) Save(storedName string, src io.Reader) (string, error) {
	dst := filepath.Join(l.config.SavePath, storedName)
	if err := fileurl.CreatePath(dst, os.ModePerm); err != nil {
		return "", err
	}
	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		return "", err
	}
	return storedName, nil
}

// Open opens a previously stored payload for streaming.
// Open 打开已存储的附件用于流式读取。
func (l *LocalFS) Open(storagePath string) (*os.File, error) {
	return os.Open(filepath.Join(l.config.SavePath, storagePath))
}

// Stat reports the stored size in bytes.
// Stat 返回已存储附件的字节大小。
func (l *LocalFS) Stat(storagePath string) (int64, error) {
	info, err := os.Stat(filepath.Join(l.config.SavePath, storagePath))
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// Delete removes the stored payload. Missing files are not an error: the
// metadata row is authoritative and the file may already be gone.
// Delete 删除附件文件，文件不存在不报错。
func (l *LocalFS) Delete(storagePath string) error {
	err := os.Remove(filepath.Join(l.config.SavePath, storagePath))
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}
