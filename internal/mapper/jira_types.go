package mapper

// JiraIssue is one record from the Jira REST v3 search response.
// Ids arrive as decimal strings.
type JiraIssue struct {
	ID     string          `json:"id"`
	Key    string          `json:"key"`
	Fields JiraIssueFields `json:"fields"`
}

type JiraIssueFields struct {
	Project   *JiraProjectRef `json:"project"`
	Summary   string          `json:"summary"`
	IssueType *JiraNamed      `json:"issuetype"`
	Priority  *JiraNamed      `json:"priority"`
	Created   string          `json:"created"`
	Updated   string          `json:"updated"`

	// Description is an Atlassian Document Format tree, or null.
	Description any `json:"description"`
}

type JiraProjectRef struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
}

type JiraNamed struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// JiraProject is one element of GET /rest/api/3/project.
type JiraProject struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
}
