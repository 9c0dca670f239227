package commands

import (
	"fmt"
	"strings"

	"tableflip.dev/focus/pkg/app"
	"tableflip.dev/focus/pkg/document"
)

// resolveTask expands an id prefix, as printed by --show-id, to a full task id.
func resolveTask(snap app.Snapshot, ref string) (string, error) {
	var ids []string
	for _, h := range snap.Horizons {
		for _, t := range h.Tasks {
			ids = append(ids, t.ID)
		}
	}
	return resolve("task", ref, ids, nil)
}

// resolveHabit accepts an id prefix or an exact habit name.
func resolveHabit(habits []document.Habit, ref string) (string, error) {
	ids := make([]string, 0, len(habits))
	names := make(map[string]string, len(habits))
	for _, h := range habits {
		if h.Archived {
			continue
		}
		ids = append(ids, h.ID)
		names[strings.ToLower(h.Name)] = h.ID
	}
	return resolve("habit", ref, ids, names)
}

// resolveProject accepts an id prefix or an exact project name.
func resolveProject(projects []document.Project, ref string) (string, error) {
	ids := make([]string, 0, len(projects))
	names := make(map[string]string, len(projects))
	for _, p := range projects {
		ids = append(ids, p.ID)
		names[strings.ToLower(p.Name)] = p.ID
	}
	return resolve("project", ref, ids, names)
}

func resolve(kind, ref string, ids []string, names map[string]string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("a %s id is required", kind)
	}
	if id, ok := names[strings.ToLower(ref)]; ok {
		return id, nil
	}
	var match []string
	for _, id := range ids {
		if id == ref {
			return id, nil
		}
		if strings.HasPrefix(id, ref) {
			match = append(match, id)
		}
	}
	switch len(match) {
	case 1:
		return match[0], nil
	case 0:
		// let the service report it so the miss is logged
		return ref, nil
	default:
		return "", fmt.Errorf("%s %q is ambiguous (%d matches)", kind, ref, len(match))
	}
}
