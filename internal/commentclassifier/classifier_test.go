package commentclassifier

import "testing"

func TestIsCommentOnly_SlashSlash(t *testing.T) {
	ok, block := IsCommentOnly("  // a comment", "go", false)
	if !ok || block {
		t.Errorf("got ok=%v block=%v, want true,false", ok, block)
	}
}

func TestIsCommentOnly_NotAComment(t *testing.T) {
	ok, _ := IsCommentOnly("func main() {}", "go", false)
	if ok {
		t.Error("expected false for code line")
	}
}

func TestIsCommentOnly_EmptyLine(t *testing.T) {
	ok, _ := IsCommentOnly("   ", "go", false)
	if ok {
		t.Error("empty line must not be a comment")
	}
}

func TestIsCommentOnly_Hash(t *testing.T) {
	ok, _ := IsCommentOnly("# a comment", "python", false)
	if !ok {
		t.Error("expected # comment to be recognized in python")
	}
}

func TestIsCommentOnly_SQLDashDash(t *testing.T) {
	ok, _ := IsCommentOnly("-- a comment", "sql", false)
	if !ok {
		t.Error("expected -- comment to be recognized in sql")
	}
}

func TestIsCommentOnly_BlockCommentContinuation(t *testing.T) {
	ok, block := IsCommentOnly("/* start of block", "go", false)
	if !ok || !block {
		t.Fatalf("got ok=%v block=%v, want true,true", ok, block)
	}
	ok2, block2 := IsCommentOnly("still inside the block", "go", block)
	if !ok2 || !block2 {
		t.Errorf("continuation: got ok=%v block=%v, want true,true", ok2, block2)
	}
	ok3, block3 := IsCommentOnly("end of block */", "go", block2)
	if !ok3 || block3 {
		t.Errorf("closing line: got ok=%v block=%v, want true,false", ok3, block3)
	}
}

func TestIsCommentOnly_BlockCommentSingleLine(t *testing.T) {
	ok, block := IsCommentOnly("/* all on one line */", "go", false)
	if !ok || block {
		t.Errorf("got ok=%v block=%v, want true,false", ok, block)
	}
}

func TestIsCommentOnly_HTMLComment(t *testing.T) {
	ok, block := IsCommentOnly("<!-- a comment -->", "html", false)
	if !ok || block {
		t.Errorf("got ok=%v block=%v, want true,false", ok, block)
	}
}

func TestIsCommentOnly_UnknownLanguageDefaultsToSlashSlash(t *testing.T) {
	ok, _ := IsCommentOnly("// comment", "some-made-up-language", false)
	if !ok {
		t.Error("expected default rules to recognize //")
	}
}
