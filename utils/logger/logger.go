// Package logger is a thin logrus front end that prefixes every message with
// a fixed width column naming the object that logged it.
package logger

import (
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

type stringer interface {
	String() string
}

type logPair struct {
	logFn func(...any)
	obj   string
	msg   string
}

const (
	logSize  = 1000
	objWidth = 20
)

var (
	logCh    = make(chan logPair, logSize)
	started  atomic.Bool
	initOnce sync.Once
)

func objToString(obj any) (objStr string) {
	if obj == nil {
		objStr = "NIL"
	} else if stringerObj, ok := obj.(stringer); ok {
		objStr = stringerObj.String()
	} else if objStr, ok = obj.(string); ok {
	} else {
		t := reflect.TypeOf(obj)
		for t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
		objStr = t.Name()
	}
	return
}

func format(p logPair) string {
	if len(p.obj) > objWidth {
		p.obj = p.obj[:objWidth]
	}
	return fmt.Sprintf("|%20s|%-100s", p.obj, p.msg)
}

// Init sets the level and formatter and starts the background writer.
// Before Init messages are written synchronously by the caller.
func Init(lvl logrus.Level) {
	logrus.SetLevel(lvl)
	logrus.SetFormatter(&logrus.TextFormatter{
		ForceColors:     true,
		FullTimestamp:   true,
		PadLevelText:    true,
		TimestampFormat: "2006/01/02 15:04:05",
	})

	initOnce.Do(func() {
		go func() {
			for p := range logCh {
				p.logFn(format(p))
			}
		}()
		started.Store(true)
	})
}

func emit(lvl logrus.Level, logFn func(...any), object any, msg func() string) {
	if logrus.GetLevel() < lvl {
		return
	}
	p := logPair{logFn: logFn, obj: objToString(object), msg: msg()}
	if !started.Load() {
		logFn(format(p))
		return
	}
	logCh <- p
}

func Trace(object any, message string) {
	emit(logrus.TraceLevel, logrus.Trace, object, func() string { return message })
}

func Tracef(object any, message string, args ...any) {
	emit(logrus.TraceLevel, logrus.Trace, object, func() string { return fmt.Sprintf(message, args...) })
}

func Debug(object any, message string) {
	emit(logrus.DebugLevel, logrus.Debug, object, func() string { return message })
}

func Debugf(object any, message string, args ...any) {
	emit(logrus.DebugLevel, logrus.Debug, object, func() string { return fmt.Sprintf(message, args...) })
}

func Info(object any, message string) {
	emit(logrus.InfoLevel, logrus.Info, object, func() string { return message })
}

func Infof(object any, message string, args ...any) {
	emit(logrus.InfoLevel, logrus.Info, object, func() string { return fmt.Sprintf(message, args...) })
}

func Warning(object any, message string) {
	emit(logrus.WarnLevel, logrus.Warning, object, func() string { return message })
}

func Warningf(object any, message string, args ...any) {
	emit(logrus.WarnLevel, logrus.Warning, object, func() string { return fmt.Sprintf(message, args...) })
}

func Error(object any, message string) {
	emit(logrus.ErrorLevel, logrus.Error, object, func() string { return message })
}

func Errorf(object any, message string, args ...any) {
	emit(logrus.ErrorLevel, logrus.Error, object, func() string { return fmt.Sprintf(message, args...) })
}

// Fatal logs synchronously and exits, bypassing the background writer so
// the message is not lost.
func Fatal(object any, message string) {
	logrus.Fatal(format(logPair{obj: objToString(object), msg: message}))
}

func Fatalf(object any, message string, args ...any) {
	logrus.Fatal(format(logPair{obj: objToString(object), msg: fmt.Sprintf(message, args...)}))
}
