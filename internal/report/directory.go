package report

import (
	"strings"

	"taskscope/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Directory resolves ids to display names when rows are built.
// Unknown ids resolve to an empty string.
type Directory struct {
	users    map[primitive.ObjectID]string
	projects map[primitive.ObjectID]string
	teams    map[primitive.ObjectID]string
}

// NewDirectory indexes the given entities by id.
func NewDirectory(users []models.User, projects []models.Project, teams []models.Team) *Directory {
	d := &Directory{
		users:    make(map[primitive.ObjectID]string, len(users)),
		projects: make(map[primitive.ObjectID]string, len(projects)),
		teams:    make(map[primitive.ObjectID]string, len(teams)),
	}
	for _, u := range users {
		d.users[u.ID] = u.Name
	}
	for _, p := range projects {
		d.projects[p.ID] = p.Name
	}
	for _, t := range teams {
		d.teams[t.ID] = t.Name
	}
	return d
}

// UserName returns the user's full name.
func (d *Directory) UserName(id primitive.ObjectID) string {
	return d.users[id]
}

// ProjectName returns the project's name.
func (d *Directory) ProjectName(id primitive.ObjectID) string {
	return d.projects[id]
}

// TeamName returns the team's name.
func (d *Directory) TeamName(id primitive.ObjectID) string {
	return d.teams[id]
}

// UserNames joins the names of ids with ", ", keeping the given order and
// skipping unknown ids.
func (d *Directory) UserNames(ids []primitive.ObjectID) string {
	return joinNames(ids, d.users)
}

// TeamNames joins the names of ids with ", ".
func (d *Directory) TeamNames(ids []primitive.ObjectID) string {
	return joinNames(ids, d.teams)
}

func joinNames(ids []primitive.ObjectID, names map[primitive.ObjectID]string) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		if name := names[id]; name != "" {
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, ", ")
}
