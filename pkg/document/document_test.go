package document

import (
	"errors"
	"testing"
)

func TestParse_ContentTypeDispatch(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		want        Kind
	}{
		{name: "html", contentType: "text/html; charset=utf-8", body: "<p>x</p>", want: KindHTML},
		{name: "xhtml", contentType: "application/xhtml+xml", body: "<p>x</p>", want: KindHTML},
		{name: "json", contentType: "application/json", body: `{"a":1}`, want: KindJSON},
		{name: "xml", contentType: "text/xml", body: "<r><a>1</a></r>", want: KindXML},
		{name: "unknown", contentType: "application/octet-stream", body: "1010", want: KindRaw},
		{name: "empty content type", contentType: "", body: "x", want: KindRaw},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse([]byte(tt.body), tt.contentType)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if doc.Kind() != tt.want {
				t.Errorf("Kind() = %v, want %v", doc.Kind(), tt.want)
			}
			if string(doc.Raw()) != tt.body {
				t.Errorf("Raw() = %q, want %q", doc.Raw(), tt.body)
			}
		})
	}
}

func TestOne(t *testing.T) {
	doc, err := ParseHTML([]byte(`<p id="a">one</p><span>x</span><span>y</span>`))
	if err != nil {
		t.Fatalf("ParseHTML() error = %v", err)
	}
	root := doc.Root()

	t.Run("exactly one", func(t *testing.T) {
		n, err := One(XPath(`//p[@id='a']`), root)
		if err != nil {
			t.Fatalf("One() error = %v", err)
		}
		if n.Text() != "one" {
			t.Errorf("Text() = %q", n.Text())
		}
	})

	t.Run("zero matches", func(t *testing.T) {
		_, err := One(XPath(`//div`), root)
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("One() = %v, want ErrNotFound", err)
		}
	})

	t.Run("several matches", func(t *testing.T) {
		_, err := One(XPath(`//span`), root)
		if !errors.Is(err, ErrAmbiguous) {
			t.Fatalf("One() = %v, want ErrAmbiguous", err)
		}
	})

	t.Run("first picks in document order", func(t *testing.T) {
		n, err := First(XPath(`//span`), root)
		if err != nil {
			t.Fatalf("First() error = %v", err)
		}
		if n.Text() != "x" {
			t.Errorf("Text() = %q, want %q", n.Text(), "x")
		}
	})
}

func TestCSSSelector(t *testing.T) {
	doc, err := ParseHTML([]byte(`<ul><li class="item">a</li><li class="item">b</li></ul>`))
	if err != nil {
		t.Fatalf("ParseHTML() error = %v", err)
	}

	nodes, err := All(CSS("li.item"), doc.Root())
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(nodes) != 2 || nodes[0].Text() != "a" || nodes[1].Text() != "b" {
		t.Errorf("All() matched %d nodes", len(nodes))
	}
}

func TestHTMLNodeAttr(t *testing.T) {
	doc, err := ParseHTML([]byte(`<a href="/x" data-id="7">link</a>`))
	if err != nil {
		t.Fatalf("ParseHTML() error = %v", err)
	}
	n, err := One(XPath(`//a`), doc.Root())
	if err != nil {
		t.Fatalf("One() error = %v", err)
	}

	if v, ok := n.Attr("data-id"); !ok || v != "7" {
		t.Errorf("Attr(data-id) = %q, %v", v, ok)
	}
	if _, ok := n.Attr("title"); ok {
		t.Error("Attr(title) should be absent")
	}
}

func TestXMLDocument(t *testing.T) {
	doc, err := ParseXML([]byte(`<feed><entry id="1">first</entry><entry id="2">second</entry></feed>`))
	if err != nil {
		t.Fatalf("ParseXML() error = %v", err)
	}

	nodes, err := All(XPath(`//entry`), doc.Root())
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(nodes) != 2 {
		t.Fatalf("All() matched %d nodes, want 2", len(nodes))
	}
	if v, ok := nodes[1].Attr("id"); !ok || v != "2" {
		t.Errorf("Attr(id) = %q, %v", v, ok)
	}
}

func TestPathSelector(t *testing.T) {
	doc, err := ParseJSON([]byte(`{
		"accounts": [
			{"id": "chk-1", "balance": "1234.56"},
			{"id": "sav-1", "balance": "99.00"}
		],
		"meta": {"page": 1}
	}`))
	if err != nil {
		t.Fatalf("ParseJSON() error = %v", err)
	}
	root := doc.Root()

	tests := []struct {
		name string
		path string
		want []string
	}{
		{name: "object key", path: "meta/page", want: []string{"1"}},
		{name: "array index", path: "accounts/1/id", want: []string{"sav-1"}},
		{name: "array wildcard", path: "accounts/*/id", want: []string{"chk-1", "sav-1"}},
		{name: "missing key", path: "nothing/here", want: nil},
		{name: "out of range", path: "accounts/9/id", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nodes, err := All(Path(tt.path), root)
			if err != nil {
				t.Fatalf("All() error = %v", err)
			}
			if len(nodes) != len(tt.want) {
				t.Fatalf("All() matched %d nodes, want %d", len(nodes), len(tt.want))
			}
			for i, n := range nodes {
				if n.Text() != tt.want[i] {
					t.Errorf("node %d = %q, want %q", i, n.Text(), tt.want[i])
				}
			}
		})
	}

	t.Run("object wildcard is deterministic", func(t *testing.T) {
		doc, err := ParseJSON([]byte(`{"b": 2, "a": 1, "c": 3}`))
		if err != nil {
			t.Fatal(err)
		}
		for range 5 {
			nodes, err := All(Path("*"), doc.Root())
			if err != nil {
				t.Fatal(err)
			}
			got := ""
			for _, n := range nodes {
				got += n.Text()
			}
			if got != "123" {
				t.Fatalf("wildcard order = %q, want sorted-key order", got)
			}
		}
	})
}

func TestJSONChildren(t *testing.T) {
	doc, err := ParseJSON([]byte(`[{"id":"a"},{"id":"b"}]`))
	if err != nil {
		t.Fatalf("ParseJSON() error = %v", err)
	}

	children, ok := JSONChildren(doc.Root())
	if !ok {
		t.Fatal("JSONChildren() reported non-container")
	}
	if len(children) != 2 {
		t.Fatalf("got %d children, want 2", len(children))
	}

	scalar, err := One(Path("0/id"), doc.Root())
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := JSONChildren(scalar); ok {
		t.Error("scalar reported as container")
	}
}

func TestJSONNodeText(t *testing.T) {
	doc, err := ParseJSON([]byte(`{"s": "x", "n": 12.50, "b": true, "z": null}`))
	if err != nil {
		t.Fatalf("ParseJSON() error = %v", err)
	}
	root := doc.Root()

	tests := []struct {
		path string
		want string
	}{
		{path: "s", want: "x"},
		{path: "n", want: "12.50"}, // json.Number keeps the source text
		{path: "b", want: "true"},
		{path: "z", want: ""},
	}
	for _, tt := range tests {
		n, err := One(Path(tt.path), root)
		if err != nil {
			t.Fatalf("One(%s) error = %v", tt.path, err)
		}
		if n.Text() != tt.want {
			t.Errorf("Text(%s) = %q, want %q", tt.path, n.Text(), tt.want)
		}
	}
}
