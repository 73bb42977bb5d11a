package generate

import (
	"fmt"
	"strings"

	"github.com/poiesic/scrivener/core"
)

// task is one unit of fan-out work: a single artifact for a single
// outline section. Each task is run by exactly one worker, so its fields
// need no synchronization.
type task struct {
	sectionIdx int
	section    core.Section
	artifact   core.ArtifactType
	state      core.TaskState
	result     string
}

// fail marks the task degraded with the placeholder the document carries
// in place of real content.
func (t *task) fail(reason string) {
	t.state = core.TaskDegraded
	t.result = fmt.Sprintf("[generation failed: %s]", reason)
}

// TaskStatus is the externally visible outcome of one task.
type TaskStatus struct {
	Section  string
	Artifact core.ArtifactType
	State    core.TaskState
}

// Report summarizes a fan-out run for callers and tests.
type Report struct {
	Tasks    []TaskStatus
	Done     int
	Degraded int
}

// planTasks expands the outline into the full task list. Every section
// gets a main, practice, case-study and quiz task; the closing memo is
// scheduled only for a designated terminal section.
func planTasks(o core.Outline) []*task {
	tasks := make([]*task, 0, len(o.Sections)*4+1)
	for i, section := range o.Sections {
		for _, artifact := range core.ArtifactOrder {
			if artifact == core.ArtifactClosingMemo {
				if i != len(o.Sections)-1 || !isTerminalSection(section.Title) {
					continue
				}
			}
			tasks = append(tasks, &task{
				sectionIdx: i,
				section:    section,
				artifact:   artifact,
				state:      core.TaskPending,
			})
		}
	}
	return tasks
}

// isTerminalSection reports whether a title designates the closing
// section of the document.
func isTerminalSection(title string) bool {
	lower := strings.ToLower(title)
	return strings.Contains(lower, "summary") || strings.Contains(lower, "conclusion")
}
