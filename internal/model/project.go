package model

import "time"

type Project struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Subnet    string    `json:"subnet" db:"subnet"`
	Status    string    `json:"status" db:"status"`
	Provider  string    `json:"provider" db:"provider"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Document is the persisted form of the whole project collection.
type Document struct {
	Projects []Project `json:"projects"`
}

// Subnets returns the subnet of every project, in order.
func Subnets(projects []Project) []string {
	subnets := make([]string, 0, len(projects))
	for _, p := range projects {
		subnets = append(subnets, p.Subnet)
	}
	return subnets
}
