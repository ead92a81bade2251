package guard

import (
	"testing"

	"github.com/codeguard-core/codeguard/internal/docsrc"
	"github.com/codeguard-core/codeguard/internal/tagparser"
)

func permsAt(t *testing.T, m map[int]LinePermission, line int) LinePermission {
	t.Helper()
	lp, ok := m[line]
	if !ok {
		t.Fatalf("no permission entry for line %d", line)
	}
	return lp
}

func TestScenario1_DefaultBlockScope(t *testing.T) {
	p := New()
	src := docsrc.New("// @guard:ai:r\nfunction hello() {\n  return 'world';\n}", "javascript")
	tags := p.Parse(src)
	perms := p.Permissions(src, tags)

	for _, ln := range []int{1, 2, 3, 4} {
		lp := permsAt(t, perms, ln)
		if lp.AIPermission != tagparser.PermissionRead || lp.HumanPermission != tagparser.PermissionWrite {
			t.Errorf("line %d: got ai=%v human=%v, want r|w", ln, lp.AIPermission, lp.HumanPermission)
		}
	}
}

func TestScenario2_LineCount(t *testing.T) {
	p := New()
	src := docsrc.New("# @guard:ai:w.5\nA\nB\nC\nD\nE\nF", "python")
	tags := p.Parse(src)
	perms := p.Permissions(src, tags)

	for ln := 1; ln <= 5; ln++ {
		lp := permsAt(t, perms, ln)
		if lp.AIPermission != tagparser.PermissionWrite || lp.HumanPermission != tagparser.PermissionWrite {
			t.Errorf("line %d: got ai=%v human=%v, want w|w", ln, lp.AIPermission, lp.HumanPermission)
		}
	}
	for ln := 6; ln <= 7; ln++ {
		lp := permsAt(t, perms, ln)
		if lp.AIPermission != tagparser.PermissionRead || lp.HumanPermission != tagparser.PermissionWrite {
			t.Errorf("line %d: got ai=%v human=%v, want r|w", ln, lp.AIPermission, lp.HumanPermission)
		}
	}
}

func TestScenario4_ContextRunAndEviction(t *testing.T) {
	p := New()
	src := docsrc.New("// @guard:ai:context\n// summary of X\n// more summary\nint main(){}", "c")
	tags := p.Parse(src)
	perms := p.Permissions(src, tags)

	for _, ln := range []int{1, 2, 3} {
		lp := permsAt(t, perms, ln)
		if lp.AIPermission != tagparser.PermissionRead || lp.HumanPermission != tagparser.PermissionWrite {
			t.Errorf("line %d: got ai=%v human=%v, want r|w", ln, lp.AIPermission, lp.HumanPermission)
		}
		if !lp.AIIsContext {
			t.Errorf("line %d: expected AIIsContext=true", ln)
		}
	}
	lp4 := permsAt(t, perms, 4)
	if lp4.AIIsContext {
		t.Error("line 4: expected AIIsContext=false once the context run ends")
	}
}

func TestScenario5_AllTargetsSemanticScope(t *testing.T) {
	p := New()
	src := docsrc.New("// @guard:ALL:n.function\ndef f():\n    return 1\ng = 2", "python")
	tags := p.Parse(src)
	perms := p.Permissions(src, tags)

	for _, ln := range []int{1, 2, 3} {
		lp := permsAt(t, perms, ln)
		if lp.AIPermission != tagparser.PermissionNone || lp.HumanPermission != tagparser.PermissionNone {
			t.Errorf("line %d: got ai=%v human=%v, want n|n", ln, lp.AIPermission, lp.HumanPermission)
		}
	}
	lp4 := permsAt(t, perms, 4)
	if lp4.AIPermission != tagparser.PermissionRead || lp4.HumanPermission != tagparser.PermissionWrite {
		t.Errorf("line 4: got ai=%v human=%v, want r|w", lp4.AIPermission, lp4.HumanPermission)
	}
}

func TestScenario6_LaterAITagOverridesMultiTargetTag(t *testing.T) {
	p := New()
	src := docsrc.New("// @guard:ai:r,human:w\nA\n// @guard:ai:w\nB\nC", "go")
	tags := p.Parse(src)
	perms := p.Permissions(src, tags)

	lp1 := permsAt(t, perms, 1)
	if lp1.AIPermission != tagparser.PermissionRead || lp1.HumanPermission != tagparser.PermissionWrite {
		t.Errorf("line 1: got ai=%v human=%v, want r|w", lp1.AIPermission, lp1.HumanPermission)
	}
	for _, ln := range []int{3, 4, 5} {
		lp := permsAt(t, perms, ln)
		if lp.AIPermission != tagparser.PermissionWrite || lp.HumanPermission != tagparser.PermissionWrite {
			t.Errorf("line %d: got ai=%v human=%v, want w|w", ln, lp.AIPermission, lp.HumanPermission)
		}
	}
}

// TestScenario3_UnsetAxisInheritsRunningPermission covers a tag that sets
// only one target, followed (after its own default-block range has already
// ended) by a tag that sets only the other target: the second tag's unset
// axis must carry over the first tag's value, not revert to the default.
func TestScenario3_UnsetAxisInheritsRunningPermission(t *testing.T) {
	p := New()
	src := docsrc.New("// @guard:ai:n\nX\n// @guard:human:r\nY\nZ", "go")
	tags := p.Parse(src)
	perms := p.Permissions(src, tags)

	lp1 := permsAt(t, perms, 1)
	if lp1.AIPermission != tagparser.PermissionNone || lp1.HumanPermission != tagparser.PermissionWrite {
		t.Errorf("line 1: got ai=%v human=%v, want n|w", lp1.AIPermission, lp1.HumanPermission)
	}
	for _, ln := range []int{3, 4, 5} {
		lp := permsAt(t, perms, ln)
		if lp.AIPermission != tagparser.PermissionNone || lp.HumanPermission != tagparser.PermissionRead {
			t.Errorf("line %d: got ai=%v human=%v, want n|r", ln, lp.AIPermission, lp.HumanPermission)
		}
	}
}

func TestPermissions_DefaultsEverywhereWithNoTags(t *testing.T) {
	p := New()
	src := docsrc.New("plain\ntext\nfile\n", "go")
	perms := p.Permissions(src, nil)
	for ln := 1; ln <= src.LineCount(); ln++ {
		lp := permsAt(t, perms, ln)
		if lp.AIPermission != tagparser.PermissionRead || lp.HumanPermission != tagparser.PermissionWrite {
			t.Errorf("line %d: want defaults r|w, got ai=%v human=%v", ln, lp.AIPermission, lp.HumanPermission)
		}
	}
}

func TestPermissions_CoversEveryLineAndNoOthers(t *testing.T) {
	p := New()
	src := docsrc.New("a\nb\nc\n", "go")
	perms := p.Permissions(src, nil)
	if len(perms) != src.LineCount() {
		t.Fatalf("got %d entries, want %d", len(perms), src.LineCount())
	}
	if _, ok := perms[0]; ok {
		t.Error("did not expect an entry for line 0")
	}
	if _, ok := perms[src.LineCount()+1]; ok {
		t.Error("did not expect an entry past the last line")
	}
}

func TestResolveScope_LineCountClampsToDocumentEnd(t *testing.T) {
	p := New()
	src := docsrc.New("# @guard:ai:w.100\nA\nB\n", "python")
	tags := p.Parse(src)
	if len(tags) != 1 {
		t.Fatalf("expected 1 tag, got %d", len(tags))
	}
	if tags[0].ScopeEnd != src.LineCount() {
		t.Errorf("ScopeEnd = %d, want %d (clamped)", tags[0].ScopeEnd, src.LineCount())
	}
}

func TestResolveScope_ContextExclusionWhenRunIsEmpty(t *testing.T) {
	p := New()
	src := docsrc.New("// @guard:ai:context\nnot_a_comment_line()\n", "go")
	tags := p.Parse(src)
	if len(tags) != 1 {
		t.Fatalf("expected 1 tag, got %d", len(tags))
	}
	if tags[0].ScopeEnd >= tags[0].ScopeStart {
		t.Errorf("expected an empty context run (ScopeEnd < ScopeStart), got [%d,%d]", tags[0].ScopeStart, tags[0].ScopeEnd)
	}
	perms := p.Permissions(src, tags)
	lp1 := permsAt(t, perms, 1)
	if lp1.AIIsContext {
		t.Error("an empty context run must contribute nothing")
	}
}
