package logger

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"sync"
	"time"
)

var Stream io.Writer = os.Stderr

var mu sync.Mutex
var lineRE = regexp.MustCompile("(?m)^")

func log1(line string) {
	timestamp := time.Now().Format("2006-01-02T15:04:05.000")
	if len(line) > 0 && line[len(line)-1] == '\n' {
		line = line[:len(line)-1]
	}
	fmt.Fprintln(Stream, timestamp+" "+line)
}

func log(prefix, msg string) {
	mu.Lock()
	defer mu.Unlock()
	if len(msg) > 0 && msg[len(msg)-1] == '\n' {
		msg = msg[:len(msg)-1]
	}
	for _, line := range lineRE.Split(msg, -1) {
		log1(prefix + line)
	}
}

type LogContext struct {
	Prefix string
}

func (l LogContext) Println(args ...interface{}) {
	log(l.Prefix, fmt.Sprintln(args...))
}

func (l LogContext) Printf(format string, args ...interface{}) {
	log(l.Prefix, fmt.Sprintf(format, args...))
}

var CLI = LogContext{"   CLI "}
var HTTP = LogContext{"  HTTP "}
var Store = LogContext{" STORE "}
var Engine = LogContext{"ENGINE "}

func Printf(format string, args ...interface{}) {
	LogContext{}.Printf(format, args...)
}

func Println(args ...interface{}) {
	LogContext{}.Println(args...)
}
