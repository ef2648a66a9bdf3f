package utils

import (
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"golang.org/x/exp/constraints"
)

func FormatMilliSat(milliSat int64) string {
	return strconv.FormatFloat(float64(milliSat)/1000, 'f', 3, 64)
}

func Satoshis[V constraints.Integer](sat V) string {
	return strconv.FormatUint(uint64(sat), 10) + " satoshis"
}

func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

func ExpandDefaultPath(dataDir string, currentValue string, defaultFileName string) string {
	if currentValue == "" {
		return path.Join(dataDir, defaultFileName)
	}

	return currentValue
}

func ExpandHomeDir(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(homeDir, strings.TrimPrefix(path, "~"))
	}
	return path
}

func GetDefaultDataDir() (string, error) {
	homeDir, err := os.UserHomeDir()

	if err != nil {
		return "", err
	}

	dataFolder := "bolt12"

	if runtime.GOOS != "windows" {
		dataFolder = "." + dataFolder
	}

	return path.Join(homeDir, dataFolder), nil
}
