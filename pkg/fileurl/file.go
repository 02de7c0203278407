package fileurl

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// IsExist checks if a file or directory exists
// IsExist 检查文件或目录是否存在
func IsExist(dst string) bool {
	_, err := os.Stat(dst)
	return err == nil || os.IsExist(err)
}

// IsDir checks if the path is a directory
// IsDir 检查路径是否为目录
func IsDir(dst string) bool {
	info, err := os.Stat(dst)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// CreatePath creates the parent directories of dst
// CreatePath 创建 dst 的父级目录
func CreatePath(dst string, perm os.FileMode) error {
	dir := dst
	if path.Ext(dst) != "" {
		dir = filepath.Dir(dst)
	}
	if IsExist(dir) {
		return nil
	}
	return os.MkdirAll(dir, perm)
}

// GetFileExt returns the extension of the file name
// GetFileExt 返回文件名的扩展名
func GetFileExt(name string) string {
	return path.Ext(name)
}

// GetRandomFileName generates a collision-free stored name keeping the extension
// GetRandomFileName 生成保留扩展名的随机存储文件名
func GetRandomFileName(fileName string) string {
	return uuid.NewString() + GetFileExt(fileName)
}

// GetExePath returns the directory of the running executable
// GetExePath 返回可执行文件所在目录
func GetExePath() string {
	filePath, _ := os.Executable()
	return filepath.Dir(filePath)
}

// IsAbsPath reports whether the path is absolute
// IsAbsPath 判断路径是否为绝对路径
func IsAbsPath(p string) bool {
	return filepath.IsAbs(p)
}

// GetAbsPath resolves path against root when it is relative
// GetAbsPath 将相对路径解析到 root 下
func GetAbsPath(p string, root string) string {
	if IsAbsPath(p) {
		return p
	}
	return filepath.Join(root, p)
}

// PathSuffixCheckAdd appends suffix when missing
// PathSuffixCheckAdd 检查并补齐路径后缀
func PathSuffixCheckAdd(p string, suffix string) string {
	if !strings.HasSuffix(p, suffix) {
		return p + suffix
	}
	return p
}
