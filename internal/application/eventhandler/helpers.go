// Package eventhandler contains the domain event handlers behind the
// notification and stream fan-out. Handlers run on the in-process event bus;
// their errors are logged by the bus and never surfaced to the command that
// published the event.
package eventhandler

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// generateID returns a new UUID in string form.
func generateID() string {
	return uuid.New().String()
}

// lessonKey renders a (lang, id) pair the way feeds display it, matching the
// assignment entity's LessonKey.
func lessonKey(lang string, id int) string {
	return strings.ToUpper(lang) + " Lesson " + strconv.Itoa(id)
}
