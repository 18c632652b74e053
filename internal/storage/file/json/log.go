package json

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/drakos74/diabetes-risk/internal/storage"
)

const (
	filename = "%d.events.log"
)

// Logger appends json encoded values as lines to a log file per key.
type Logger struct {
	root string
	path string
}

func NewLogger(root, folder string) *Logger {
	return &Logger{root: root, path: folder}
}

func (l *Logger) filePath(k storage.K) string {
	return path.Join(l.root, storage.RegistryDir, l.path, k.Pair, k.Label)
}

func (l *Logger) Store(k storage.Key, value interface{}) error {

	filePath := l.filePath(storage.K{
		Pair:  k.Pair,
		Label: k.Label,
	})

	// check if filepath exists
	info, err := os.Stat(filePath)
	if err != nil {
		err := os.MkdirAll(filePath, os.ModePerm)
		if err != nil {
			return fmt.Errorf("could not make dir: %s: %w", filePath, err)
		}
	} else if !info.IsDir() {
		return fmt.Errorf("path given is not a directory: %s", filePath)
	}

	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("could not encode value '%+v': %w", value, err)
	}
	f, err := os.OpenFile(path.Join(filePath, fmt.Sprintf(filename, k.Hash)), os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0600)
	if err != nil {
		return fmt.Errorf("could not open log file: %w", err)
	}
	defer f.Close()

	if _, err = f.Write(append(b, []byte("\n")...)); err != nil {
		return fmt.Errorf("could not write log file for '%+v': %w", k, err)
	}
	return nil
}

func (l Logger) Load(k storage.Key, value interface{}) error {

	switch value.(type) {
	case *string:
	default:
		return fmt.Errorf("only string references are allowed for this: %v", value)
	}

	fileName := path.Join(l.filePath(storage.K{
		Pair:  k.Pair,
		Label: k.Label,
	}), fmt.Sprintf(filename, k.Hash))

	b, err := os.ReadFile(fileName)
	if err != nil {
		return fmt.Errorf("could not read file '%s': %s: %w", fileName, err.Error(), storage.NotFoundErr)
	}

	vv := reflect.Indirect(reflect.ValueOf(value))
	vv.Set(reflect.ValueOf(string(b)))

	return nil
}

// Registry is an append only event log, one file per hash.
type Registry struct {
	hash   int64
	logger *Logger
	root   string
}

// NewEventRegistry creates a registry for the given folder under the root storage dir.
func NewEventRegistry(root, folder string) *Registry {
	return &Registry{
		hash:   time.Now().Unix(),
		logger: NewLogger(root, folder),
		root:   root,
	}
}

func (e *Registry) WithHash(h int64) *Registry {
	e.hash = h
	return e
}

func (e *Registry) Root() string {
	return e.root
}

func (e *Registry) Add(key storage.K, value interface{}) error {
	k := storage.Key{
		Hash:  e.hash,
		Pair:  key.Pair,
		Label: key.Label,
	}
	return e.logger.Store(k, value)
}

// GetAll loads all events for the key, across all hashes, into the given slice pointer.
// Events are ordered by hash and then by insertion.
func (e *Registry) GetAll(key storage.K, values interface{}) error {

	ptr := reflect.ValueOf(values)
	if ptr.Kind() != reflect.Ptr || ptr.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("only accepting slice pointers as placeholder for the results")
	}
	t := ptr.Elem().Type().Elem()

	filePath := e.logger.filePath(key)
	hashes := make([]int64, 0)
	err := filepath.Walk(filePath, func(path string, info os.FileInfo, err error) error {
		if info != nil && !info.IsDir() {
			h, err := strconv.ParseInt(strings.Split(info.Name(), ".")[0], 10, 64)
			if err != nil {
				return fmt.Errorf("non-numeric path '%s' found for hash: %w", path, err)
			}
			hashes = append(hashes, h)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("could not get events: %w", err)
	}
	sort.Slice(hashes, func(i, j int) bool {
		return hashes[i] < hashes[j]
	})

	elemSlice := reflect.MakeSlice(reflect.SliceOf(t), 0, 10)
	for _, h := range hashes {
		var ss string
		err = e.logger.Load(storage.Key{
			Hash:  h,
			Pair:  key.Pair,
			Label: key.Label,
		}, &ss)
		if err != nil {
			return fmt.Errorf("could not load key '%+v': %w", key, err)
		}
		for _, s := range strings.Split(ss, "\n") {
			if s == "" {
				continue
			}
			instance := reflect.New(t)
			err = json.Unmarshal([]byte(s), instance.Interface())
			if err != nil {
				return fmt.Errorf("could not decode event value '%+v': %w", s, err)
			}
			elemSlice = reflect.Append(elemSlice, instance.Elem())
		}
	}

	ptr.Elem().Set(elemSlice)
	return nil
}
