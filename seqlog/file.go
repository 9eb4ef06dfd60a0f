package seqlog

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
)

// FileLog keeps one sequence per line in a text file.
type FileLog struct {
	sync.Mutex
	path string
	f    *os.File
}

func NewFileLog(path string) *FileLog {
	return &FileLog{path: path}
}

func (l *FileLog) Path() string {
	return l.path
}

func (l *FileLog) Append(ctx context.Context, seq string) error {
	if strings.ContainsAny(seq, "\r\n") {
		return fmt.Errorf("sequence %q spans more than one line", seq)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	l.Lock()
	defer l.Unlock()
	if l.f == nil {
		f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return err
		}
		l.f = f
	}
	_, err := l.f.WriteString(seq + "\n")
	return err
}

func (l *FileLog) ReadAll(ctx context.Context) ([]string, error) {
	l.Lock()
	defer l.Unlock()
	f, err := os.Open(l.path)
	if errors.Is(err, os.ErrNotExist) {
		return []string{}, nil
	} else if err != nil {
		return nil, err
	}
	defer f.Close()

	lines := []string{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		lines = append(lines, strings.TrimSpace(scanner.Text()))
	}
	return lines, scanner.Err()
}

func (l *FileLog) Close() error {
	l.Lock()
	defer l.Unlock()
	if l.f == nil {
		return nil
	}
	err := l.f.Close()
	l.f = nil
	return err
}
