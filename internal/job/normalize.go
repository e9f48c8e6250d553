package job

import "strings"

// Normalize trims and tidies a Request's free-text fields before
// validation/creation, mirroring the teacher's LogEvent.Normalize().
func (r *Request) Normalize() {
	r.TeamName = strings.TrimSpace(r.TeamName)
	r.ProblemName = strings.TrimSpace(r.ProblemName)
	r.FileContent = strings.TrimRight(r.FileContent, "\r\n")
}
