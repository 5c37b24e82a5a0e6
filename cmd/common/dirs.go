package common

import (
	"github.com/gigurra/sundry/pkg/basedir"
)

// AppName is the directory name used for sundry's own files under the
// xdg base directories.
const AppName = "sundry"

func CacheDir() string {
	return basedir.AppCacheDir(AppName)
}

func ConfigDir() string {
	return basedir.AppConfigDir(AppName)
}
