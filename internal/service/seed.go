package service

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hearthshare/hearthshare/internal/model"
)

// SeedFile bootstraps a household: members and task definitions in YAML.
type SeedFile struct {
	Members []SeedMember `yaml:"members"`
	Tasks   []SeedTask   `yaml:"tasks"`
}

type SeedMember struct {
	Name        string `yaml:"name"`
	Color       string `yaml:"color"`
	AvatarEmoji string `yaml:"avatar_emoji"`
}

type SeedTask struct {
	Title          string   `yaml:"title"`
	Users          []string `yaml:"users"`
	InitialOrder   []string `yaml:"initial_order"`
	TimesPerDay    int      `yaml:"times_per_day"`
	Rotation       bool     `yaml:"rotation"`
	RotationType   string   `yaml:"rotation_type"`
	RotationValue  int      `yaml:"rotation_value"`
	RotationUnit   string   `yaml:"rotation_unit"`
	RecurrenceRule string   `yaml:"recurrence_rule"`
	DateRange      string   `yaml:"date_range"`
}

// ImportSeed loads a seed file and creates its members and tasks,
// skipping any that already exist by name. Returns counts of what was
// actually created.
func (r *Rotation) ImportSeed(path string) (membersCreated, tasksCreated int, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, 0, fmt.Errorf("read seed file: %w", err)
	}
	var seed SeedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return 0, 0, fmt.Errorf("parse seed file: %w", err)
	}

	for _, m := range seed.Members {
		existing, err := r.members.GetByName(m.Name)
		if err != nil {
			return membersCreated, tasksCreated, err
		}
		if existing != nil {
			continue
		}
		if _, err := r.members.Create(m.Name, m.Color, m.AvatarEmoji); err != nil {
			return membersCreated, tasksCreated, err
		}
		membersCreated++
	}

	for _, st := range seed.Tasks {
		existing, err := r.tasks.GetByTitle(st.Title)
		if err != nil {
			return membersCreated, tasksCreated, err
		}
		if existing != nil {
			continue
		}

		if st.TimesPerDay < 1 {
			st.TimesPerDay = 1
		}
		task := &model.Task{
			Title:          st.Title,
			Users:          st.Users,
			InitialOrder:   st.InitialOrder,
			TimesPerDay:    st.TimesPerDay,
			RecurrenceRule: st.RecurrenceRule,
			DateRange:      st.DateRange,
		}
		if st.Rotation {
			task.Settings = []string{model.SettingRotation}
			if st.RotationType != "" {
				task.RotationSettings = &model.RotationSettings{
					Type:  st.RotationType,
					Value: st.RotationValue,
					Unit:  st.RotationUnit,
				}
			}
		}
		if _, err := r.tasks.Create(task); err != nil {
			return membersCreated, tasksCreated, err
		}
		tasksCreated++
	}

	r.log.Info("seed imported", "path", path, "members", membersCreated, "tasks", tasksCreated)
	return membersCreated, tasksCreated, nil
}
