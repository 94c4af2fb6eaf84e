package utils

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// WriteExport writes content to dir/fileName, creating dir when needed, and
// returns the written path.
func WriteExport(dir, fileName string, content []byte) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %v", dir, err)
	}

	path := filepath.Join(dir, fileName)
	// 写入文件
	if err := os.WriteFile(path, content, 0644); err != nil {
		return "", fmt.Errorf("failed to write file %s: %v", path, err)
	}
	log.Printf("written to: %s", path)
	return path, nil
}
