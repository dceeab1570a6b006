package logger

import (
	"io"
	"os"

	"github.com/labstack/gommon/log"
)

// echoと同じgommonのロガーを共有する
var std = newStd()

func newStd() *log.Logger {
	l := log.New("bookstore")
	l.SetOutput(os.Stdout)
	l.SetLevel(log.INFO)
	l.SetHeader(`${time_rfc3339} ${level} ${prefix}`)
	return l
}

// echo.Logger に渡す
func Std() *log.Logger {
	return std
}

// debug/info/warn/error
func SetLevel(level string) {
	switch level {
	case "debug":
		std.SetLevel(log.DEBUG)
	case "warn":
		std.SetLevel(log.WARN)
	case "error":
		std.SetLevel(log.ERROR)
	default:
		std.SetLevel(log.INFO)
	}
}

func SetOutput(w io.Writer) {
	std.SetOutput(w)
}

func Debug(msg string, v ...interface{}) {
	std.Debugf(msg, v...)
}

func Info(msg string, v ...interface{}) {
	std.Infof(msg, v...)
}

func Warn(msg string, v ...interface{}) {
	std.Warnf(msg, v...)
}

func Error(msg string, err error, v ...interface{}) {
	if err != nil {
		std.Errorf(msg+": %v", append(v, err)...)
	} else {
		std.Errorf(msg, v...)
	}
}
