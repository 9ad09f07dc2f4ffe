package cliapp

import "time"

// Values holds the converted input of an action, keyed by Argument.Key. Only
// the action's declared arguments are ever present.
type Values map[string]interface{}

func (v Values) Has(key string) bool {
	_, ok := v[key]
	return ok
}

func (v Values) String(key string) string {
	result, _ := Get[string](v, key)
	return result
}

func (v Values) Strings(key string) []string {
	return GetAll[string](v, key)
}

func (v Values) Int(key string) int {
	result, _ := Get[int](v, key)
	return result
}

func (v Values) Bool(key string) bool {
	result, _ := Get[bool](v, key)
	return result
}

func (v Values) Duration(key string) time.Duration {
	result, _ := Get[time.Duration](v, key)
	return result
}

// Get returns the value under key if it is present and of type T.
func Get[T any](v Values, key string) (T, bool) {
	result, ok := v[key].(T)
	return result, ok
}

// GetAll returns the values of a Multiple argument that are of type T.
func GetAll[T any](v Values, key string) []T {
	switch values := v[key].(type) {
	case []interface{}:
		result := make([]T, 0, len(values))
		for _, value := range values {
			if typed, ok := value.(T); ok {
				result = append(result, typed)
			}
		}
		return result
	case T:
		return []T{values}
	}
	return nil
}
