package jj

import "testing"

func Test_Backend_ShortestUniquePrefixLen(t *testing.T) {
	repo := NewRepoSnapshot()
	repo.AddCommit(&Commit{CommitID: "abcdef", ChangeID: "123456"})
	repo.AddCommit(&Commit{CommitID: "abcd00", ChangeID: "120000"})

	if got := repo.ShortestUniquePrefixLen("abcdef"); got != 5 {
		t.Fatalf("abcdef: got %d", got)
	}
	if got := repo.ShortestUniquePrefixLen("123456"); got != 3 {
		t.Fatalf("123456: got %d", got)
	}
}

func Test_Backend_ShortestUniquePrefixLenDegenerate(t *testing.T) {
	repo := NewRepoSnapshot()
	repo.AddCommit(&Commit{CommitID: "aa", ChangeID: "bb"})
	// The only id with its leading digit resolves at length 1.
	if got := repo.ShortestUniquePrefixLen("aa"); got != 1 {
		t.Fatalf("aa: got %d", got)
	}
	if got := repo.ShortestUniquePrefixLen(""); got != 0 {
		t.Fatalf("empty: got %d", got)
	}
}

func Test_Backend_ShortAndBrackets(t *testing.T) {
	repo := NewRepoSnapshot()
	repo.AddCommit(&Commit{
		CommitID: "0123456789abcdef0123456789abcdef01234567",
		ChangeID: "ffffffffffffffffffffffffffffffffffffffff",
	})
	id := NewCommitOrChangeID(repo, "0123456789abcdef0123456789abcdef01234567")
	if got := id.Short(); got != "0123456789ab" {
		t.Fatalf("short: got %q", got)
	}
	// Unique at one digit: everything after it lands in brackets.
	if got := id.ShortestPrefixAndBrackets(); got != "0[123456789ab]" {
		t.Fatalf("brackets: got %q", got)
	}
	styled := id.ShortestStyledPrefix()
	if styled.Prefix != "0" || styled.Rest != "123456789ab" {
		t.Fatalf("styled: got %+v", styled)
	}
}

func Test_Backend_BracketsOmittedWhenPrefixCoversShortForm(t *testing.T) {
	repo := NewRepoSnapshot()
	// Two ids that differ only in their last digit force a prefix as
	// long as the ids themselves.
	repo.AddCommit(&Commit{CommitID: "abcdefabcdea", ChangeID: "111111111111"})
	repo.AddCommit(&Commit{CommitID: "abcdefabcdeb", ChangeID: "222222222222"})
	id := NewCommitOrChangeID(repo, "abcdefabcdea")
	if got := id.ShortestPrefixAndBrackets(); got != "abcdefabcdea" {
		t.Fatalf("brackets: got %q", got)
	}
}

func Test_Backend_SnapshotAccessors(t *testing.T) {
	repo, c1, c2 := testRepo(t)
	commits := repo.Commits()
	if len(commits) != 2 || commits[0] != c1 || commits[1] != c2 {
		t.Fatalf("commits order: got %v", commits)
	}
	if got := repo.Branches(c1.CommitID); len(got) != 2 || got[0] != "dev" || got[1] != "main" {
		t.Fatalf("branches sorted: got %v", got)
	}
	if repo.GitHead() != c1.CommitID {
		t.Fatalf("git head: got %q", repo.GitHead())
	}
	if repo.Divergent(c1.ChangeID) {
		t.Fatalf("unexpected divergence")
	}
}

func Test_Backend_ReAddingCommitIsNotDivergence(t *testing.T) {
	repo, c1, _ := testRepo(t)
	repo.AddCommit(c1)
	if repo.Divergent(c1.ChangeID) {
		t.Fatalf("re-added commit reported as divergent")
	}
	if got := repo.Commits(); len(got) != 2 {
		t.Fatalf("commit count after re-add: got %d", len(got))
	}

	// Two distinct commits on one change id still diverge.
	repo.AddCommit(&Commit{
		CommitID: "0a77777777777777777777777777777777777777",
		ChangeID: c1.ChangeID,
	})
	if !repo.Divergent(c1.ChangeID) {
		t.Fatalf("two commits on one change id not reported as divergent")
	}
}
