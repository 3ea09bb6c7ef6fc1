package example

type IssueType string

const (
	IssueTypeBug  IssueType = "bug"
	IssueTypeTask IssueType = "task"
)

type IssuePriority string

const (
	IssuePriorityHigh IssuePriority = "high"
)

type TaskType string

const (
	TaskTypeIssueSync TaskType = "issue_sync"
)

type Issue struct {
	Type     IssueType
	Priority IssuePriority
	Summary  string
}

type Task struct {
	TaskType TaskType
}

func bad() {
	i := &Issue{}
	i.Type = "initiative" // want "enum field Type assigned string literal"

	_ = Task{TaskType: "repo_sync"} // want "enum field TaskType assigned string literal"

	_ = &Issue{Priority: "urgent"} // want "enum field Priority assigned string literal"
}

func good() {
	i := &Issue{}
	i.Type = IssueTypeBug // OK: using constant
	i.Summary = "plain strings are fine"

	_ = Task{TaskType: TaskTypeIssueSync}
	_ = Issue{Priority: IssuePriorityHigh, Summary: "still fine"}
}

func alsoGood() {
	// OK: conversion, not a literal
	t := IssueType("story")
	i := &Issue{Type: t}
	_ = i
}
