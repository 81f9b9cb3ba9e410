package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/edvin/subnets/internal/client"
)

type projectsFile struct {
	Projects []projectEntry `yaml:"projects"`
}

type projectEntry struct {
	Name     string `yaml:"name"`
	Status   string `yaml:"status"`
	Provider string `yaml:"provider"`
}

func main() {
	file := flag.String("f", "seeds/dev/projects.yaml", "Path to projects YAML file")
	server := flag.String("api", envOr("SUBNETS_API_URL", "http://localhost:3001"), "Subnets API base URL")
	flag.Parse()

	data, err := os.ReadFile(*file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read %s: %v\n", *file, err)
		os.Exit(1)
	}
	var seed projectsFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		fmt.Fprintf(os.Stderr, "parse %s: %v\n", *file, err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	c := client.New(*server)
	existing, err := c.ListProjects(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "list projects: %v\n", err)
		os.Exit(1)
	}
	taken := make(map[string]bool, len(existing))
	for _, p := range existing {
		taken[strings.ToLower(p.Name)] = true
	}

	fmt.Println("Seeding projects...")
	for _, e := range seed.Projects {
		if taken[strings.ToLower(e.Name)] {
			fmt.Printf("  %s already exists, skipping\n", e.Name)
			continue
		}
		p, err := c.CreateProject(ctx, client.CreateRequest{Name: e.Name, Status: e.Status, Provider: e.Provider})
		if err != nil {
			fmt.Fprintf(os.Stderr, "create %s: %v\n", e.Name, err)
			os.Exit(1)
		}
		fmt.Printf("  %s -> %s\n", p.Name, p.Subnet)
	}
	fmt.Println("Done.")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
