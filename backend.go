// backend.go: the record model consumed by templates.
//
// Templates render commits. A commit carries its own scalar data
// (description, author, committer, flags); everything that depends on
// repository-wide state (ref sets, working copies, id prefix resolution,
// divergence) is answered by a read-only Repo handle. The template core
// never mutates either; a built template borrows the Repo for its whole
// lifetime and may be rendered against any number of commits.
package jj

import (
	"sort"
	"strings"
)

// WorkspaceID names one working copy of a repository.
type WorkspaceID string

// DefaultWorkspaceID is the workspace used when the caller has no opinion.
const DefaultWorkspaceID WorkspaceID = "default"

// Timestamp is a moment in time plus the timezone it was recorded in.
type Timestamp struct {
	MillisSinceEpoch int64
	TZOffsetMinutes  int
}

// Signature identifies who authored or committed a change, and when.
type Signature struct {
	Name      string
	Email     string
	Timestamp Timestamp
}

// Commit is the context type every template is rendered against.
// CommitID and ChangeID are lowercase hex strings.
type Commit struct {
	CommitID    string
	ChangeID    string
	Description string
	Author      Signature
	Committer   Signature
	Conflict    bool
	Empty       bool
}

// Repo is the read-only record-store surface the template core consumes.
// Implementations must be safe for concurrent reads; the core only reads.
type Repo interface {
	// ShortestUniquePrefixLen reports how many hex digits of idHex are
	// needed to distinguish it from every other id the repo knows about.
	ShortestUniquePrefixLen(idHex string) int

	// WorkingCopies maps each workspace to its working-copy commit id.
	WorkingCopies() map[WorkspaceID]string

	Branches(commitID string) []string
	Tags(commitID string) []string
	GitRefs(commitID string) []string

	// GitHead returns the commit id the git HEAD points at, or "".
	GitHead() string

	// Divergent reports whether more than one visible commit carries
	// the given change id.
	Divergent(changeID string) bool
}

// ---------------------------------------------------------------------------
// Commit and change ids
// ---------------------------------------------------------------------------

const shortIDLen = 12

// CommitOrChangeID is an id together with the repo handle needed to
// compute its shortest unique prefix.
type CommitOrChangeID struct {
	hex  string
	repo Repo
}

func NewCommitOrChangeID(repo Repo, hex string) CommitOrChangeID {
	return CommitOrChangeID{hex: hex, repo: repo}
}

// Hex returns the full id.
func (id CommitOrChangeID) Hex() string { return id.hex }

// Short returns the conventional 12-digit short form.
func (id CommitOrChangeID) Short() string {
	if len(id.hex) <= shortIDLen {
		return id.hex
	}
	return id.hex[:shortIDLen]
}

// splitPrefixAndRest splits the short form at the shortest unique prefix.
func (id CommitOrChangeID) splitPrefixAndRest() (prefix, rest string) {
	short := id.Short()
	n := id.repo.ShortestUniquePrefixLen(id.hex)
	if n > len(short) {
		n = len(short)
	}
	return short[:n], short[n:]
}

// ShortestPrefixAndBrackets renders the short form as "prefix[rest]".
func (id CommitOrChangeID) ShortestPrefixAndBrackets() string {
	prefix, rest := id.splitPrefixAndRest()
	if rest == "" {
		return prefix
	}
	return prefix + "[" + rest + "]"
}

// ShortestStyledPrefix splits the short form for styled rendering.
func (id CommitOrChangeID) ShortestStyledPrefix() IDWithHighlightedPrefix {
	prefix, rest := id.splitPrefixAndRest()
	return IDWithHighlightedPrefix{Prefix: prefix, Rest: rest}
}

// IDWithHighlightedPrefix is a display-only value: an id short form whose
// unique prefix is styled apart from the rest. It has no methods in the
// template language.
type IDWithHighlightedPrefix struct {
	Prefix string
	Rest   string
}

// ---------------------------------------------------------------------------
// In-memory repo
// ---------------------------------------------------------------------------

// RepoSnapshot is an in-memory Repo. It backs tests and fixture files;
// a real record store would satisfy Repo directly. Populate it with the
// Add/Set methods, then treat it as read-only.
type RepoSnapshot struct {
	order         []string
	commits       map[string]*Commit
	byChange      map[string][]string
	workingCopies map[WorkspaceID]string
	branches      map[string][]string
	tags          map[string][]string
	gitRefs       map[string][]string
	gitHead       string
	ids           []string
}

func NewRepoSnapshot() *RepoSnapshot {
	return &RepoSnapshot{
		commits:       map[string]*Commit{},
		byChange:      map[string][]string{},
		workingCopies: map[WorkspaceID]string{},
		branches:      map[string][]string{},
		tags:          map[string][]string{},
		gitRefs:       map[string][]string{},
	}
}

func (r *RepoSnapshot) AddCommit(c *Commit) {
	if _, ok := r.commits[c.CommitID]; !ok {
		r.order = append(r.order, c.CommitID)
		r.ids = append(r.ids, c.CommitID, c.ChangeID)
		r.byChange[c.ChangeID] = append(r.byChange[c.ChangeID], c.CommitID)
	}
	r.commits[c.CommitID] = c
}

func (r *RepoSnapshot) SetWorkingCopy(ws WorkspaceID, commitID string) {
	r.workingCopies[ws] = commitID
}

func (r *RepoSnapshot) AddBranch(name, commitID string) {
	r.branches[commitID] = append(r.branches[commitID], name)
}

func (r *RepoSnapshot) AddTag(name, commitID string) {
	r.tags[commitID] = append(r.tags[commitID], name)
}

func (r *RepoSnapshot) AddGitRef(name, commitID string) {
	r.gitRefs[commitID] = append(r.gitRefs[commitID], name)
}

func (r *RepoSnapshot) SetGitHead(commitID string) { r.gitHead = commitID }

// Commits returns all commits in insertion order.
func (r *RepoSnapshot) Commits() []*Commit {
	out := make([]*Commit, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.commits[id])
	}
	return out
}

func (r *RepoSnapshot) ShortestUniquePrefixLen(idHex string) int {
	for n := 1; n < len(idHex); n++ {
		prefix := idHex[:n]
		unique := true
		for _, other := range r.ids {
			if other != idHex && strings.HasPrefix(other, prefix) {
				unique = false
				break
			}
		}
		if unique {
			return n
		}
	}
	if len(idHex) == 0 {
		return 0
	}
	return len(idHex)
}

func (r *RepoSnapshot) WorkingCopies() map[WorkspaceID]string { return r.workingCopies }

func (r *RepoSnapshot) Branches(commitID string) []string { return sortedNames(r.branches[commitID]) }
func (r *RepoSnapshot) Tags(commitID string) []string     { return sortedNames(r.tags[commitID]) }
func (r *RepoSnapshot) GitRefs(commitID string) []string  { return sortedNames(r.gitRefs[commitID]) }

func (r *RepoSnapshot) GitHead() string { return r.gitHead }

func (r *RepoSnapshot) Divergent(changeID string) bool {
	return len(r.byChange[changeID]) > 1
}

func sortedNames(names []string) []string {
	out := append([]string(nil), names...)
	sort.Strings(out)
	return out
}
