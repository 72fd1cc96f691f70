package path

import "testing"

func TestParseRoundTrip(t *testing.T) {
	cases := []string{"/", "/g", "/g/a", "/g/a/in"}
	for _, s := range cases {
		p, err := Parse(s)
		if err != nil {
			t.Fatalf("Parse(%q): %v", s, err)
		}
		if got := p.String(); got != s {
			t.Errorf("Parse(%q).String() = %q, want %q", s, got, s)
		}
	}
}

func TestParseRejectsBadSegments(t *testing.T) {
	cases := []string{"", "g", "/1abc", "/a//b", "/a-b", "/a/"}
	for _, s := range cases {
		if _, err := Parse(s); err == nil {
			t.Errorf("Parse(%q): expected error, got nil", s)
		}
	}
}

func TestChildAndParent(t *testing.T) {
	root := Root
	g, err := root.Child("g")
	if err != nil {
		t.Fatal(err)
	}
	a, err := g.Child("a")
	if err != nil {
		t.Fatal(err)
	}
	if a.String() != "/g/a" {
		t.Fatalf("got %q", a.String())
	}
	parent, ok := a.Parent()
	if !ok || !parent.Equal(g) {
		t.Fatalf("Parent() = %q, %v", parent.String(), ok)
	}
	if a.Base() != "a" {
		t.Fatalf("Base() = %q", a.Base())
	}
	if _, ok := root.Parent(); ok {
		t.Fatal("root should have no parent")
	}
}

func TestHasPrefixAndWithPrefix(t *testing.T) {
	a := MustParse("/g/a")
	aOut := MustParse("/g/a/out")
	if !aOut.HasPrefix(a) {
		t.Fatal("expected /g/a/out to have prefix /g/a")
	}
	if a.HasPrefix(aOut) {
		t.Fatal("did not expect /g/a to have prefix /g/a/out")
	}

	a2 := MustParse("/g/a2")
	renamed := aOut.WithPrefix(a, a2)
	if renamed.String() != "/g/a2/out" {
		t.Fatalf("WithPrefix: got %q", renamed.String())
	}
}
