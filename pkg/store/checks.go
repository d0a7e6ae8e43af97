package store

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"
	"unicode"
)

// CheckOptions lists what the development checks should skip.
type CheckOptions struct {
	IgnoredActions     []string
	IgnoredActionPaths []string
	IgnoredPaths       []string
}

func (o CheckOptions) actionIgnored(t string) bool {
	for _, ignored := range o.IgnoredActions {
		if ignored == t {
			return true
		}
	}
	return false
}

func pathIgnored(path string, ignored []string) bool {
	for _, p := range ignored {
		if path == p || strings.HasPrefix(path, p+".") {
			return true
		}
	}
	return false
}

// SerializableCheck warns about values in actions or state that would not
// survive persistence or a devtools round trip.
func SerializableCheck[S any](opts CheckOptions, log Logger) Middleware[S] {
	if log == nil {
		log = nopLogger{}
	}
	return func(api API[S], action Action, next Dispatch) Action {
		if !opts.actionIgnored(action.Type) {
			var found []string
			walkSerializable(reflect.ValueOf(action.Payload), "payload", opts.IgnoredActionPaths, 0, &found)
			if action.Meta != nil {
				walkSerializable(reflect.ValueOf(action.Meta.Arg), "meta.arg", opts.IgnoredActionPaths, 0, &found)
			}
			for _, path := range found {
				log.Warn("Store", "Non-serializable value in action", map[string]interface{}{
					"type": action.Type,
					"path": path,
				})
			}
		}

		result := next(action)

		var found []string
		walkSerializable(reflect.ValueOf(api.GetState()), "", opts.IgnoredPaths, 0, &found)
		for _, path := range found {
			log.Warn("Store", "Non-serializable value in state", map[string]interface{}{
				"type": action.Type,
				"path": path,
			})
		}
		return result
	}
}

var timeType = reflect.TypeOf(time.Time{})

const maxWalkDepth = 32

func walkSerializable(v reflect.Value, path string, ignored []string, depth int, found *[]string) {
	if !v.IsValid() || depth > maxWalkDepth || pathIgnored(path, ignored) {
		return
	}
	switch v.Kind() {
	case reflect.Func, reflect.Chan, reflect.UnsafePointer, reflect.Complex64, reflect.Complex128:
		*found = append(*found, path)
	case reflect.Pointer, reflect.Interface:
		if !v.IsNil() {
			walkSerializable(v.Elem(), path, ignored, depth+1, found)
		}
	case reflect.Struct:
		if v.Type() == timeType {
			return
		}
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			walkSerializable(v.Field(i), joinPath(path, fieldName(f)), ignored, depth+1, found)
		}
	case reflect.Map:
		iter := v.MapRange()
		for iter.Next() {
			walkSerializable(iter.Value(), joinPath(path, fmt.Sprint(iter.Key().Interface())), ignored, depth+1, found)
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			walkSerializable(v.Index(i), joinPath(path, fmt.Sprint(i)), ignored, depth+1, found)
		}
	}
}

func fieldName(f reflect.StructField) string {
	if tag := f.Tag.Get("json"); tag != "" {
		if name := strings.Split(tag, ",")[0]; name != "" && name != "-" {
			return name
		}
	}
	r := []rune(f.Name)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

func joinPath(base, name string) string {
	if base == "" {
		return name
	}
	return base + "." + name
}

// ImmutableCheck detects state changed outside the reducer: between two
// dispatches with no reducer run in between, the state fingerprint must not
// move.
func ImmutableCheck[S any](opts CheckOptions, log Logger) Middleware[S] {
	if log == nil {
		log = nopLogger{}
	}
	var (
		mu          sync.Mutex
		lastVersion uint64
		lastPrint   [32]byte
		recorded    bool
	)

	return func(api API[S], action Action, next Dispatch) Action {
		versioned, ok := api.(interface{ Version() uint64 })
		if !ok {
			return next(action)
		}

		mu.Lock()
		if recorded && versioned.Version() == lastVersion {
			if fp, err := fingerprint(api.GetState(), opts.IgnoredPaths); err == nil && fp != lastPrint {
				log.Error("Store", "State mutated outside a reducer", map[string]interface{}{"before": action.Type})
			}
		}
		mu.Unlock()

		result := next(action)

		mu.Lock()
		if fp, err := fingerprint(api.GetState(), opts.IgnoredPaths); err == nil {
			lastPrint = fp
			lastVersion = versioned.Version()
			recorded = true
		}
		mu.Unlock()
		return result
	}
}

func fingerprint(state any, ignored []string) ([32]byte, error) {
	raw, err := json.Marshal(state)
	if err != nil {
		return [32]byte{}, err
	}
	if len(ignored) > 0 {
		var tree any
		if err := json.Unmarshal(raw, &tree); err != nil {
			return [32]byte{}, err
		}
		for _, p := range ignored {
			deletePath(tree, strings.Split(p, "."))
		}
		if raw, err = json.Marshal(tree); err != nil {
			return [32]byte{}, err
		}
	}
	return sha256.Sum256(raw), nil
}

func deletePath(tree any, parts []string) {
	m, ok := tree.(map[string]any)
	if !ok || len(parts) == 0 {
		return
	}
	if len(parts) == 1 {
		delete(m, parts[0])
		return
	}
	deletePath(m[parts[0]], parts[1:])
}
