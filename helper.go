// File: lixenwraith/layerconf/helper.go
package layerconf

// setNestedValue sets a value in a nested map along a path.
// It creates intermediate maps if they don't exist.
// If a segment exists but is not a map, it will be overwritten by a new map.
func setNestedValue(nested map[string]any, path Path, value any) {
	current := nested

	// Iterate through segments up to the second-to-last one
	for _, segment := range path[:len(path)-1] {
		next, exists := current[segment]
		if nextMap, isMap := next.(map[string]any); exists && isMap {
			current = nextMap
			continue
		}
		newMap := make(map[string]any)
		current[segment] = newMap
		current = newMap
	}

	current[path[len(path)-1]] = value
}
