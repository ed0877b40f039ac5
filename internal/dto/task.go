package dto

import (
	model "github.com/fbedussi/ganpro/internal/models"
)

type TaskRequest struct {
	Name           string       `json:"name"`
	StartDate      model.Day    `json:"startDate"`
	Length         int          `json:"length"`
	Assignee       string       `json:"assignee"`
	DependenciesID model.IDList `json:"dependenciesId"`
}

type RescheduleRequest struct {
	Token   string `json:"token"`
	Confirm bool   `json:"confirm"`
}
