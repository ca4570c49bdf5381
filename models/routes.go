package models

// Resource path segments of the remote mutation endpoints.
var entityPaths = map[EntityType]string{
	EntityTemplate:       "templates",
	EntityWorkoutSession: "workout-sessions",
	EntityEquipment:      "equipment",
}

// Path returns the collection segment used in /api/{entity} routes.
func (t EntityType) Path() (string, bool) {
	p, ok := entityPaths[t]
	return p, ok
}

// EntityTypeFromPath maps a route segment back to its entity type.
func EntityTypeFromPath(path string) (EntityType, bool) {
	for t, p := range entityPaths {
		if p == path {
			return t, true
		}
	}
	return "", false
}
