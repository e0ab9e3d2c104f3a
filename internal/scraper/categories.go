package scraper

import (
	"fmt"
	"regexp"
	"sort"
)

// BookingOption is one selection the booking form requires before the
// listing renders.
type BookingOption struct {
	Type        string
	Value       string
	FinalButton string
}

// Category describes one scrape target: where the booking flow starts, which
// options to pick, and how the category-specific task count is phrased on
// cards.
type Category struct {
	Key         string
	Name        string
	URL         string
	Options     []BookingOption
	TaskPattern *regexp.Regexp
}

var categories = map[string]Category{
	"furniture_assembly": {
		Key:  "furniture_assembly",
		Name: "Furniture Assembly",
		URL:  "https://www.taskrabbit.com/services/handyman/assemble-furniture",
		Options: []BookingOption{
			{Type: "furniture_type", Value: "Both IKEA and non-IKEA furniture"},
			{Type: "size", Value: "Medium - Est. 2-3 hrs"},
			{Type: "task_details", Value: "build stool"},
		},
		TaskPattern: regexp.MustCompile(`(\d+)\s+Furniture Assembly tasks`),
	},
	"plumbing": {
		Key:  "plumbing",
		Name: "Plumbing",
		URL:  "https://www.taskrabbit.com/services/handyman/plumbing",
		Options: []BookingOption{
			{Type: "size", Value: "Medium - Est. 2-3 hrs"},
			{Type: "task_details", Value: "fix leaky faucet", FinalButton: "See Taskers & Prices"},
		},
		TaskPattern: regexp.MustCompile(`(\d+)\s+Plumbing tasks`),
	},
	"electrical": {
		Key:  "electrical",
		Name: "Electrical Help",
		URL:  "https://www.taskrabbit.com/services/handyman/electrical-work",
		Options: []BookingOption{
			{Type: "size", Value: "Medium - Est. 2-3 hrs"},
			{Type: "task_details", Value: "install light fixture", FinalButton: "See Taskers & Prices"},
		},
		TaskPattern: regexp.MustCompile(`(\d+)\s+Electrical tasks`),
	},
	"door_repair": {
		Key:  "door_repair",
		Name: "Door, Cabinet & Furniture Repair",
		URL:  "https://www.taskrabbit.com/services/handyman/door-and-cabinet-repair",
		Options: []BookingOption{
			{Type: "size", Value: "Medium - Est. 2-3 hrs"},
			{Type: "task_details", Value: "fix cabinet door", FinalButton: "See Taskers & Prices"},
		},
		TaskPattern: regexp.MustCompile(`(\d+)\s+Repair tasks`),
	},
	"sealing_caulking": {
		Key:  "sealing_caulking",
		Name: "Sealing and caulking",
		URL:  "https://www.taskrabbit.com/services/handyman/sealing-caulking",
		Options: []BookingOption{
			{Type: "size", Value: "Medium - Est. 2-3 hrs"},
			{Type: "task_details", Value: "caulk bathroom tiles", FinalButton: "See Taskers & Prices"},
		},
		TaskPattern: regexp.MustCompile(`(\d+)\s+Caulking tasks`),
	},
	"appliance_installation": {
		Key:  "appliance_installation",
		Name: "Appliance Installation",
		URL:  "https://www.taskrabbit.com/services/handyman/appliance-repairs",
		Options: []BookingOption{
			{Type: "size", Value: "Medium - Est. 2-3 hrs"},
			{Type: "task_details", Value: "install dishwasher", FinalButton: "See Taskers & Prices"},
		},
		TaskPattern: regexp.MustCompile(`(\d+)\s+Appliance tasks`),
	},
	"flooring_tiling": {
		Key:  "flooring_tiling",
		Name: "Flooring & Tiling Help",
		URL:  "https://www.taskrabbit.com/services/handyman/flooring-tiling-help",
		Options: []BookingOption{
			{Type: "size", Value: "Medium - Est. 2-3 hrs"},
			{Type: "task_details", Value: "install tile flooring", FinalButton: "See Taskers & Prices"},
		},
		TaskPattern: regexp.MustCompile(`(\d+)\s+Flooring tasks`),
	},
	"wall_repair": {
		Key:  "wall_repair",
		Name: "Wall Repair",
		URL:  "https://www.taskrabbit.com/services/handyman/drywall-repair",
		Options: []BookingOption{
			{Type: "size", Value: "Medium - Est. 2-3 hrs"},
			{Type: "task_details", Value: "patch drywall hole", FinalButton: "See Taskers & Prices"},
		},
		TaskPattern: regexp.MustCompile(`(\d+)\s+Wall Repair tasks`),
	},
	"window_blinds_repair": {
		Key:  "window_blinds_repair",
		Name: "Window & Blinds Repair",
		URL:  "https://www.taskrabbit.com/services/handyman/window-repair",
		Options: []BookingOption{
			{Type: "size", Value: "Medium - Est. 2-3 hrs"},
			{Type: "task_details", Value: "fix window blinds", FinalButton: "See Taskers & Prices"},
		},
		TaskPattern: regexp.MustCompile(`(\d+)\s+Window tasks`),
	},
	"smart_home": {
		Key:  "smart_home",
		Name: "Smart Home Installation",
		URL:  "https://www.taskrabbit.com/services/handyman/smart-home-installation",
		Options: []BookingOption{
			{Type: "size", Value: "Medium - Est. 2-3 hrs"},
			{Type: "vehicle_requirements", Value: "Not needed for task"},
			{Type: "task_details", Value: "install smart thermostat", FinalButton: "See Taskers & Prices"},
		},
		TaskPattern: regexp.MustCompile(`(\d+)\s+Smart Home tasks`),
	},
	"interior_painting": {
		Key:  "interior_painting",
		Name: "Interior Painting",
		URL:  "https://www.taskrabbit.com/services/handyman/painting",
		Options: []BookingOption{
			{Type: "size", Value: "Medium - Est. 2-3 hrs"},
			{Type: "task_details", Value: "paint bedroom walls", FinalButton: "See Taskers & Prices"},
		},
		TaskPattern: regexp.MustCompile(`(\d+)\s+Painting tasks`),
	},
}

// GetCategory looks up one category by key.
func GetCategory(key string) (Category, error) {
	c, ok := categories[key]
	if !ok {
		return Category{}, fmt.Errorf("unknown category: %s", key)
	}
	return c, nil
}

// CategoryKeys returns all known category keys, sorted.
func CategoryKeys() []string {
	keys := make([]string, 0, len(categories))
	for k := range categories {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
