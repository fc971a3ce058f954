// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultSeed returns the built-in Mergington High School roster. The slice
// order is the order GET /activities presents the activities in.
func DefaultSeed() []NamedActivity {
	return []NamedActivity{
		{
			Name: "Chess Club",
			Activity: Activity{
				Description:     "Learn strategies and compete in chess tournaments",
				Schedule:        "Fridays, 3:30 PM - 5:00 PM",
				MaxParticipants: 12,
				Participants:    []string{"michael@mergington.edu", "daniel@mergington.edu"},
			},
		},
		{
			Name: "Programming Class",
			Activity: Activity{
				Description:     "Learn programming fundamentals and build software projects",
				Schedule:        "Tuesdays and Thursdays, 3:30 PM - 4:30 PM",
				MaxParticipants: 20,
				Participants:    []string{"emma@mergington.edu", "sophia@mergington.edu"},
			},
		},
		{
			Name: "Gym Class",
			Activity: Activity{
				Description:     "Physical education and sports activities",
				Schedule:        "Mondays, Wednesdays, Fridays, 2:00 PM - 3:00 PM",
				MaxParticipants: 30,
				Participants:    []string{"john@mergington.edu", "olivia@mergington.edu"},
			},
		},
		{
			Name: "Basketball Team",
			Activity: Activity{
				Description:     "Competitive basketball league and practice",
				Schedule:        "Mondays and Wednesdays, 4:00 PM - 5:30 PM",
				MaxParticipants: 15,
				Participants:    []string{"alex@mergington.edu"},
			},
		},
		{
			Name: "Tennis Club",
			Activity: Activity{
				Description:     "Learn tennis skills and compete in matches",
				Schedule:        "Saturdays, 10:00 AM - 12:00 PM",
				MaxParticipants: 10,
				Participants:    []string{"james@mergington.edu", "lucy@mergington.edu"},
			},
		},
		{
			Name: "Art Studio",
			Activity: Activity{
				Description:     "Explore painting, drawing, and sculpture techniques",
				Schedule:        "Wednesdays and Fridays, 3:30 PM - 5:00 PM",
				MaxParticipants: 18,
				Participants:    []string{"isabella@mergington.edu"},
			},
		},
		{
			Name: "Drama Club",
			Activity: Activity{
				Description:     "Perform in school plays and develop theatrical skills",
				Schedule:        "Tuesdays and Thursdays, 4:00 PM - 5:30 PM",
				MaxParticipants: 25,
				Participants:    []string{"noah@mergington.edu", "ava@mergington.edu"},
			},
		},
		{
			Name: "Debate Team",
			Activity: Activity{
				Description:     "Develop argumentation and public speaking skills",
				Schedule:        "Mondays and Thursdays, 3:30 PM - 5:00 PM",
				MaxParticipants: 16,
				Participants:    []string{"lucas@mergington.edu"},
			},
		},
		{
			Name: "Science Club",
			Activity: Activity{
				Description:     "Conduct experiments and explore scientific concepts",
				Schedule:        "Tuesdays, 3:30 PM - 5:00 PM",
				MaxParticipants: 22,
				Participants:    []string{"charlotte@mergington.edu", "benjamin@mergington.edu"},
			},
		},
	}
}

// LoadSeedFile reads an alternate roster from a YAML file. The file holds a
// YAML list so the document order carries through to the registry.
func LoadSeedFile(path string) ([]NamedActivity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var seed []NamedActivity
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}

	for i := range seed {
		if seed[i].Name == "" {
			return nil, fmt.Errorf("seed entry %d: missing activity name", i)
		}
		if seed[i].Activity.MaxParticipants <= 0 {
			return nil, fmt.Errorf("seed entry %q: max_participants must be positive", seed[i].Name)
		}
		if seed[i].Activity.Participants == nil {
			seed[i].Activity.Participants = []string{}
		}
	}
	return seed, nil
}
