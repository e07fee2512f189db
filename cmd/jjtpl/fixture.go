// fixture.go: JSON repo fixtures for the CLI.
//
// A fixture describes commits plus the repo-wide state the template
// keywords consult (working copies, ref tables, git head). Example:
//
//	{
//	  "commits": [
//	    {
//	      "commit_id": "0123abcd...",
//	      "change_id": "ffeeddcc...",
//	      "description": "fix the frobnicator\n\nlong form",
//	      "author": {"name": "A", "email": "a@example.com",
//	                 "timestamp": {"millis": 1700000000000, "tz_offset_minutes": 60}},
//	      "committer": {"name": "A", "email": "a@example.com",
//	                    "timestamp": {"millis": 1700000000000, "tz_offset_minutes": 60}},
//	      "conflict": false,
//	      "empty": false
//	    }
//	  ],
//	  "working_copies": {"default": "0123abcd..."},
//	  "branches": {"main": "0123abcd..."},
//	  "tags": {},
//	  "git_refs": {},
//	  "git_head": "0123abcd..."
//	}
package main

import (
	"encoding/json"
	"fmt"
	"os"

	jj "github.com/jaraco/jj"
)

type fixtureTimestamp struct {
	Millis          int64 `json:"millis"`
	TZOffsetMinutes int   `json:"tz_offset_minutes"`
}

type fixtureSignature struct {
	Name      string           `json:"name"`
	Email     string           `json:"email"`
	Timestamp fixtureTimestamp `json:"timestamp"`
}

type fixtureCommit struct {
	CommitID    string           `json:"commit_id"`
	ChangeID    string           `json:"change_id"`
	Description string           `json:"description"`
	Author      fixtureSignature `json:"author"`
	Committer   fixtureSignature `json:"committer"`
	Conflict    bool             `json:"conflict"`
	Empty       bool             `json:"empty"`
}

type fixture struct {
	Commits       []fixtureCommit   `json:"commits"`
	WorkingCopies map[string]string `json:"working_copies"`
	Branches      map[string]string `json:"branches"`
	Tags          map[string]string `json:"tags"`
	GitRefs       map[string]string `json:"git_refs"`
	GitHead       string            `json:"git_head"`
}

func toSignature(s fixtureSignature) jj.Signature {
	return jj.Signature{
		Name:  s.Name,
		Email: s.Email,
		Timestamp: jj.Timestamp{
			MillisSinceEpoch: s.Timestamp.Millis,
			TZOffsetMinutes:  s.Timestamp.TZOffsetMinutes,
		},
	}
}

// loadFixture reads a fixture file into a RepoSnapshot plus the commits
// in file order.
func loadFixture(path string) (*jj.RepoSnapshot, []*jj.Commit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: cannot read fixture: %w", appName, err)
	}
	var fx fixture
	if err := json.Unmarshal(data, &fx); err != nil {
		return nil, nil, fmt.Errorf("%s: bad fixture %s: %w", appName, path, err)
	}

	repo := jj.NewRepoSnapshot()
	for _, fc := range fx.Commits {
		repo.AddCommit(&jj.Commit{
			CommitID:    fc.CommitID,
			ChangeID:    fc.ChangeID,
			Description: fc.Description,
			Author:      toSignature(fc.Author),
			Committer:   toSignature(fc.Committer),
			Conflict:    fc.Conflict,
			Empty:       fc.Empty,
		})
	}
	for ws, commitID := range fx.WorkingCopies {
		repo.SetWorkingCopy(jj.WorkspaceID(ws), commitID)
	}
	for name, commitID := range fx.Branches {
		repo.AddBranch(name, commitID)
	}
	for name, commitID := range fx.Tags {
		repo.AddTag(name, commitID)
	}
	for name, commitID := range fx.GitRefs {
		repo.AddGitRef(name, commitID)
	}
	if fx.GitHead != "" {
		repo.SetGitHead(fx.GitHead)
	}
	return repo, repo.Commits(), nil
}
