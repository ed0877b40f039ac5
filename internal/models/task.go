package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Task is a bar on the project Gantt chart. StartDate must fall on a working
// day; EffectiveLength and EndDate are derived from StartDate and Length by
// the scheduler and recomputed on every edit.
type Task struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	ProjectID       uint   `gorm:"index;not null" json:"projId"`
	Name            string `gorm:"not null" json:"name"`
	StartDate       Day    `gorm:"type:date;not null" json:"startDate"`
	EndDate         Day    `gorm:"type:date;not null" json:"endDate"`
	Length          int    `gorm:"not null" json:"length"`
	EffectiveLength int    `gorm:"not null" json:"effectiveLength"`
	Assignee        string `json:"assignee"`
	DependenciesID  IDList `gorm:"type:text" json:"dependenciesId"`
	Color           string `json:"color"`
}

// IDList is a set of task ids stored as a JSON array in a single column. The
// dependency graph is never persisted on its own; it is rebuilt from these
// lists on demand.
type IDList []uint

func (l IDList) Contains(id uint) bool {
	for _, v := range l {
		if v == id {
			return true
		}
	}
	return false
}

func (l IDList) Value() (driver.Value, error) {
	if l == nil {
		l = IDList{}
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *IDList) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*l = IDList{}
		return nil
	case string:
		return json.Unmarshal([]byte(v), l)
	case []byte:
		return json.Unmarshal(v, l)
	default:
		return fmt.Errorf("cannot scan %T into IDList", value)
	}
}
