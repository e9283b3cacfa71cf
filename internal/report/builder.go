// Package report shapes aggregates and entity listings into ordered, named
// tables. Encoding them (spreadsheet, JSON) is left to the caller.
package report

import (
	"fmt"
	"strings"
	"time"

	"taskscope/internal/aggregate"
	"taskscope/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Sheet names.
const (
	SheetSummary    = "Summary"
	SheetByStatus   = "By Status"
	SheetByPriority = "By Priority"
	SheetByProject  = "By Project"
	SheetByMember   = "By Member"
	SheetTasks      = "Tasks"
	SheetProjects   = "Projects"
)

// DateLayout is the layout of every date cell.
const DateLayout = "2006-01-02"

// Sheet is one named table. Every row has one value per column, in column order.
type Sheet struct {
	Name    string          `json:"name"`
	Columns []string        `json:"columns"`
	Rows    [][]interface{} `json:"rows"`
}

// Record returns row i as a column-name keyed map.
func (s Sheet) Record(i int) map[string]interface{} {
	rec := make(map[string]interface{}, len(s.Columns))
	for j, col := range s.Columns {
		rec[col] = s.Rows[i][j]
	}
	return rec
}

// Report is the builder output. GeneratedAt is the only build-time value; rows
// never carry it.
type Report struct {
	GeneratedAt time.Time `json:"generatedAt"`
	Sheets      []Sheet   `json:"sheets"`
}

// Sheet returns the sheet with the given name.
func (r *Report) Sheet(name string) (Sheet, bool) {
	for _, s := range r.Sheets {
		if s.Name == name {
			return s, true
		}
	}
	return Sheet{}, false
}

// Builder accumulates sheets in the order they are added.
type Builder struct {
	dir    *Directory
	sheets []Sheet
}

// NewBuilder creates a Builder resolving references through dir.
func NewBuilder(dir *Directory) *Builder {
	if dir == nil {
		dir = NewDirectory(nil, nil, nil)
	}
	return &Builder{dir: dir}
}

// Aggregates adds the summary sheet followed by every computed dimension in the
// order status, priority, project, member.
func (b *Builder) Aggregates(result *aggregate.Result) *Builder {
	b.Summary(result.Summary)
	if result.ByStatus != nil {
		b.ByStatus(result.ByStatus)
	}
	if result.ByPriority != nil {
		b.ByPriority(result.ByPriority)
	}
	if result.ByProject != nil {
		b.ByProject(result.ByProject)
	}
	if result.ByMember != nil {
		b.ByMember(result.ByMember)
	}
	return b
}

// Summary adds a two-column metric sheet.
func (b *Builder) Summary(s aggregate.Summary) *Builder {
	return b.add(SheetSummary, []string{"Metric", "Value"}, [][]interface{}{
		{"Total Tasks", s.Total},
		{"Not Started", s.NotStarted},
		{"In Progress", s.InProgress},
		{"Completed", s.Completed},
		{"Overdue", s.Overdue},
		{"Completion Rate (%)", s.CompletionRate},
	})
}

// ByStatus adds the status breakdown.
func (b *Builder) ByStatus(rows []aggregate.StatusRow) *Builder {
	out := make([][]interface{}, 0, len(rows))
	for _, r := range rows {
		out = append(out, []interface{}{string(r.Status), r.Count})
	}
	return b.add(SheetByStatus, []string{"Status", "Count"}, out)
}

// ByPriority adds the priority breakdown.
func (b *Builder) ByPriority(rows []aggregate.PriorityRow) *Builder {
	out := make([][]interface{}, 0, len(rows))
	for _, r := range rows {
		out = append(out, []interface{}{r.Priority, r.Total, r.Completed})
	}
	return b.add(SheetByPriority, []string{"Priority", "Total", "Completed"}, out)
}

// ByProject adds the per-project breakdown.
func (b *Builder) ByProject(rows []aggregate.ProjectRow) *Builder {
	out := make([][]interface{}, 0, len(rows))
	for _, r := range rows {
		name := r.Name
		if name == "" {
			name = b.dir.ProjectName(r.ProjectID)
		}
		out = append(out, []interface{}{name, r.Total, r.Completed, r.InProgress, r.Overdue, r.CompletionRate})
	}
	return b.add(SheetByProject,
		[]string{"Project", "Total", "Completed", "In Progress", "Overdue", "Completion Rate (%)"}, out)
}

// ByMember adds the per-member breakdown.
func (b *Builder) ByMember(rows []aggregate.MemberRow) *Builder {
	out := make([][]interface{}, 0, len(rows))
	for _, r := range rows {
		name := r.Name
		if name == "" {
			name = b.dir.UserName(r.UserID)
		}
		out = append(out, []interface{}{name, r.Total, r.Completed, r.InProgress, r.NotStarted, r.Overdue, r.CompletionRate})
	}
	return b.add(SheetByMember,
		[]string{"Member", "Total", "Completed", "In Progress", "Not Started", "Overdue", "Completion Rate (%)"}, out)
}

// Tasks adds a task listing. References are resolved to names; derived fields
// are computed at asOf.
func (b *Builder) Tasks(tasks []models.Task, asOf time.Time) *Builder {
	out := make([][]interface{}, 0, len(tasks))
	for i := range tasks {
		t := &tasks[i]
		done := 0
		for _, st := range t.Subtasks {
			if st.Completed {
				done++
			}
		}
		out = append(out, []interface{}{
			t.Title,
			t.Description,
			b.dir.ProjectName(t.Project),
			string(t.Status),
			t.Priority,
			b.dir.UserNames(t.AssignedTo),
			b.dir.UserName(t.CreatedBy),
			formatDate(t.DueDate),
			t.CompletionPercentage(),
			yesNo(t.IsOverdue(asOf)),
			fmt.Sprintf("%d/%d", done, len(t.Subtasks)),
			strings.Join(t.Tags, ", "),
			formatDate(&t.CreatedAt),
		})
	}
	return b.add(SheetTasks, []string{
		"Title", "Description", "Project", "Status", "Priority", "Assigned To", "Created By",
		"Due Date", "Completion (%)", "Overdue", "Subtasks", "Tags", "Created At",
	}, out)
}

// Projects adds a project listing with per-project task counts taken from tasks.
func (b *Builder) Projects(projects []models.Project, tasks []models.Task) *Builder {
	total := make(map[primitive.ObjectID]int, len(projects))
	completed := make(map[primitive.ObjectID]int, len(projects))
	for i := range tasks {
		total[tasks[i].Project]++
		if tasks[i].Status == models.StatusCompleted {
			completed[tasks[i].Project]++
		}
	}

	out := make([][]interface{}, 0, len(projects))
	for i := range projects {
		p := &projects[i]
		out = append(out, []interface{}{
			p.Name,
			p.Description,
			b.dir.TeamNames(p.TeamIDs()),
			p.Status,
			p.Priority,
			formatDate(p.StartDate),
			formatDate(p.EndDate),
			b.dir.UserName(p.CreatedBy),
			total[p.ID],
			aggregate.Rate(completed[p.ID], total[p.ID]),
		})
	}
	return b.add(SheetProjects, []string{
		"Name", "Description", "Teams", "Status", "Priority", "Start Date", "End Date",
		"Created By", "Tasks", "Completion Rate (%)",
	}, out)
}

// Build returns the report. The builder can keep being used afterwards.
func (b *Builder) Build(generatedAt time.Time) *Report {
	sheets := make([]Sheet, len(b.sheets))
	copy(sheets, b.sheets)
	return &Report{
		GeneratedAt: generatedAt.UTC(),
		Sheets:      sheets,
	}
}

func (b *Builder) add(name string, columns []string, rows [][]interface{}) *Builder {
	b.sheets = append(b.sheets, Sheet{Name: name, Columns: columns, Rows: rows})
	return b
}

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.UTC().Format(DateLayout)
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
