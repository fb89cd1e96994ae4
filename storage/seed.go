package storage

import "time"

// SeedNotes returns the demo corpus used when nothing is stored yet.
func SeedNotes() []Note {
	at := func(month time.Month, day, hour, min int) time.Time {
		return time.Date(2025, month, day, hour, min, 0, 0, time.Local)
	}
	notes := []Note{
		{
			ID:        1,
			Title:     "React Hooks Overview",
			Content:   `React Hooks are functions that let you "hook into" React state and lifecycle features from function components. They were introduced in React 16.8 and allow you to use state and other React features without writing a class component.`,
			Labels:    []string{"React", "Frontend", "Programming"},
			CreatedAt: at(time.May, 1, 10, 30),
			UpdatedAt: at(time.May, 1, 10, 30),
		},
		{
			ID:        2,
			Title:     "CSS Grid Layout Tips",
			Content:   "CSS Grid Layout is a two-dimensional grid-based layout system aimed at web page design. It allows for the creation of complex responsive web design layouts more easily and consistently across browsers. Some key properties: grid-template-columns, grid-template-rows, grid-gap, etc.",
			Labels:    []string{"CSS", "Frontend", "Design"},
			CreatedAt: at(time.May, 2, 15, 45),
			UpdatedAt: at(time.May, 2, 15, 45),
		},
		{
			ID:        3,
			Title:     "JavaScript Promises",
			Content:   "Promises in JavaScript represent operations that haven't completed yet, but are expected to complete in the future. They are used to handle asynchronous operations. A Promise can be in one of three states: pending, fulfilled, or rejected.",
			Labels:    []string{"JavaScript", "Programming", "Async"},
			CreatedAt: at(time.May, 3, 9, 15),
			UpdatedAt: at(time.May, 3, 9, 15),
		},
	}
	return notes
}
