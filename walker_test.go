package veil

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

type book struct {
	Title       string `json:"title"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Publisher   string `json:"publisher"`
}

func sampleBook() book {
	return book{
		Title:       "Clean Code",
		Email:       "robert@example.com",
		PhoneNumber: "0712345678",
		Publisher:   "Prentice Hall",
	}
}

func TestWalkerString(t *testing.T) {
	w := New(DefaultConfig())

	want := `{"title":"Clean Code","email":"ro****@example.com","phoneNumber":"071****678","publisher":"Prentice Hall"}`
	if result := w.String(sampleBook()); result != want {
		t.Errorf("String = %s, want %s", result, want)
	}
}

func TestWalkerStringPointer(t *testing.T) {
	w := New(DefaultConfig())
	b := sampleBook()

	if w.String(&b) != w.String(b) {
		t.Error("pointer and value renderings differ")
	}
}

func TestWalkerDoesNotMutate(t *testing.T) {
	w := New(DefaultConfig())
	b := sampleBook()

	first := w.String(&b)
	second := w.String(&b)

	if first != second {
		t.Errorf("repeated renderings differ: %s vs %s", first, second)
	}
	if b != sampleBook() {
		t.Errorf("original mutated: %+v", b)
	}
}

func TestWalkerNil(t *testing.T) {
	w := New(DefaultConfig())

	if result := w.String(nil); result != "null" {
		t.Errorf("String(nil) = %q, want null", result)
	}
	if node := w.Mask(nil); node.Kind() != KindScalar || node.Value() != nil {
		t.Errorf("Mask(nil) = %+v, want null scalar", node)
	}
}

func TestWalkerNilField(t *testing.T) {
	type wrapper struct {
		Book *book  `json:"book"`
		Note string `json:"note"`
	}

	w := New(DefaultConfig())
	want := `{"book":null,"note":"hi"}`
	if result := w.String(wrapper{Note: "hi"}); result != want {
		t.Errorf("String = %s, want %s", result, want)
	}
}

func TestWalkerDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Enabled = false
	w := New(cfg)

	b := sampleBook()
	if result := w.String(b); result != fmt.Sprint(b) {
		t.Errorf("String with masking disabled = %q, want plain %q", result, fmt.Sprint(b))
	}
	if node := w.Mask(b); node.Kind() != KindScalar {
		t.Errorf("Mask with masking disabled = kind %v, want scalar", node.Kind())
	}
}

func TestWalkerScalarsPassthrough(t *testing.T) {
	type numbers struct {
		SSN   int     `json:"ssn"` // sensitive name, but scalars are never masked
		Score float64 `json:"score"`
		Done  bool    `json:"done"`
	}

	w := New(DefaultConfig())
	want := `{"ssn":123456789,"score":9.5,"done":true}`
	if result := w.String(numbers{SSN: 123456789, Score: 9.5, Done: true}); result != want {
		t.Errorf("String = %s, want %s", result, want)
	}
}

func TestWalkerTopLevelNonStruct(t *testing.T) {
	w := New(DefaultConfig())

	tests := []struct {
		input    any
		expected string
	}{
		{"hello", `"hello"`},
		{42, "42"},
		{[]string{"a", "b"}, `["a","b"]`},
		{[]int{1, 2}, "[1,2]"},
	}

	for _, tt := range tests {
		if result := w.String(tt.input); result != tt.expected {
			t.Errorf("String(%v) = %s, want %s", tt.input, result, tt.expected)
		}
	}
}

type chainNode struct {
	Name string     `json:"name"`
	Next *chainNode `json:"next"`
}

func TestWalkerSelfReference(t *testing.T) {
	w := New(DefaultConfig())

	n := &chainNode{Name: "a"}
	n.Next = n

	want := `{"name":"a","next":{"$ref":"chainNode@cyclic"}}`
	if result := w.String(n); result != want {
		t.Errorf("String = %s, want %s", result, want)
	}
}

func TestWalkerCycleOfTwo(t *testing.T) {
	w := New(DefaultConfig())

	a := &chainNode{Name: "a"}
	b := &chainNode{Name: "b"}
	a.Next = b
	b.Next = a

	result := w.String(a)
	if !strings.Contains(result, "@cyclic") {
		t.Errorf("String = %s, want a cyclic marker", result)
	}
	if !strings.Contains(result, `"name":"b"`) {
		t.Errorf("String = %s, want second node rendered once", result)
	}
}

func TestWalkerMaxDepth(t *testing.T) {
	w := New(DefaultConfig(), WithMaxDepth(4))

	head := &chainNode{Name: "0"}
	current := head
	for i := 1; i < 10; i++ {
		next := &chainNode{Name: fmt.Sprint(i)}
		current.Next = next
		current = next
	}

	result := w.String(head)
	if !strings.Contains(result, "@depth") {
		t.Errorf("String = %s, want a truncation marker", result)
	}
	if strings.Contains(result, `"name":"9"`) {
		t.Errorf("String = %s, want tail truncated", result)
	}
}

func TestWalkerDirectivePrecedence(t *testing.T) {
	type payment struct {
		// Configured sensitive AND tagged: the directive's style wins
		CardNumber string `json:"cardNumber" mask:"last4"`
		// Tagged full although config default is partial
		Email string `json:"email" mask:"full"`
		// Directive character override
		PIN string `json:"pin" mask:"full,char=#"`
		// Bare directive on an unconfigured name still masks
		Reference string `json:"reference" mask:"partial"`
	}

	w := New(DefaultConfig())
	p := payment{
		CardNumber: "4111111111111234",
		Email:      "john@gmail.com",
		PIN:        "9876",
		Reference:  "REF-2024-001",
	}

	want := `{"cardNumber":"************1234","email":"**************","pin":"####","reference":"REF******001"}`
	if result := w.String(p); result != want {
		t.Errorf("String = %s, want %s", result, want)
	}
}

func TestWalkerStringSlices(t *testing.T) {
	type contactSheet struct {
		Emails []string `json:"emails" mask:"partial"`
		Labels []string `json:"labels"`
		Counts []int    `json:"counts"`
	}

	w := New(DefaultConfig())
	c := contactSheet{
		Emails: []string{"john@gmail.com", "a@test.com"},
		Labels: []string{"vip", "beta"},
		Counts: []int{1, 2, 3},
	}

	want := `{"emails":["jo**@gmail.com","*@test.com"],"labels":["vip","beta"],"counts":[1,2,3]}`
	if result := w.String(c); result != want {
		t.Errorf("String = %s, want %s", result, want)
	}
}

func TestWalkerNestedStructs(t *testing.T) {
	type author struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	type catalog struct {
		Title   string   `json:"title"`
		Authors []author `json:"authors"`
	}

	w := New(DefaultConfig())
	c := catalog{
		Title: "Essays",
		Authors: []author{
			{Name: "Ann", Email: "ann@example.com"},
			{Name: "Bob", Email: "bob@example.com"},
		},
	}

	want := `{"title":"Essays","authors":[{"name":"Ann","email":"a**@example.com"},{"name":"Bob","email":"b**@example.com"}]}`
	if result := w.String(c); result != want {
		t.Errorf("String = %s, want %s", result, want)
	}
}

func TestWalkerMapPassthrough(t *testing.T) {
	type bag struct {
		Attrs map[string]string `json:"attrs"`
	}

	w := New(DefaultConfig())
	b := bag{Attrs: map[string]string{"color": "red"}}

	want := `{"attrs":{"color":"red"}}`
	if result := w.String(b); result != want {
		t.Errorf("String = %s, want %s", result, want)
	}
}

func TestWalkerEmptySlices(t *testing.T) {
	type pair struct {
		A []string `json:"a"`
		B []string `json:"b"`
	}

	w := New(DefaultConfig())

	// Distinct empty slices share a base address but are not a cycle
	want := `{"a":[],"b":[]}`
	if result := w.String(pair{A: []string{}, B: []string{}}); result != want {
		t.Errorf("String = %s, want %s", result, want)
	}

	// A non-empty slice seen twice is still reported as a revisit
	shared := []string{"x"}
	result := w.String(pair{A: shared, B: shared})
	if !strings.Contains(result, "@cyclic") {
		t.Errorf("String = %s, want shared slice marked as revisit", result)
	}
}

func TestWalkerEmbeddedStruct(t *testing.T) {
	type Base struct {
		ID string `json:"id"`
	}
	type record struct {
		Base
		Email string `json:"email"`
	}

	w := New(DefaultConfig())
	r := record{Base: Base{ID: "r-1"}, Email: "john@gmail.com"}

	want := `{"id":"r-1","email":"jo**@gmail.com"}`
	if result := w.String(r); result != want {
		t.Errorf("String = %s, want %s", result, want)
	}
}

// SelfNode embeds itself through a pointer; the field name must be exported
// for the embedding to be visible to the plan.
type SelfNode struct {
	*SelfNode
	Name string `json:"name"`
}

func TestWalkerSelfEmbeddedType(t *testing.T) {
	w := New(DefaultConfig())

	// Plan building terminates; the self-embed is an ordinary field
	want := `{"SelfNode":null,"name":"root"}`
	if result := w.String(&SelfNode{Name: "root"}); result != want {
		t.Errorf("String = %s, want %s", result, want)
	}

	// A cyclic instance terminates with a marker
	n := &SelfNode{Name: "a"}
	n.SelfNode = n
	result := w.String(n)
	if !strings.Contains(result, "@cyclic") {
		t.Errorf("String = %s, want a cyclic marker", result)
	}
}

func TestWalkerSkipsFields(t *testing.T) {
	type mixed struct {
		Public string `json:"public"`
		Hidden string `json:"-"`
		secret string
	}

	w := New(DefaultConfig())
	m := mixed{Public: "ok", Hidden: "nope", secret: "nope"}

	want := `{"public":"ok"}`
	if result := w.String(m); result != want {
		t.Errorf("String = %s, want %s", result, want)
	}
}

func TestWalkerPlatformTypes(t *testing.T) {
	type event struct {
		Name string    `json:"name"`
		At   time.Time `json:"at"`
	}

	w := New(DefaultConfig())
	e := event{Name: "published", At: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}

	result := w.String(e)
	if !strings.Contains(result, "2024-03-01T12:00:00Z") {
		t.Errorf("String = %s, want time rendered as a scalar", result)
	}
	if strings.Contains(result, "wall") {
		t.Errorf("String = %s, walked into time.Time internals", result)
	}
}

func TestWalkerByteSlicePassthrough(t *testing.T) {
	type blob struct {
		Data []byte `json:"data"`
	}

	w := New(DefaultConfig())
	want := `{"data":"aGk="}`
	if result := w.String(blob{Data: []byte("hi")}); result != want {
		t.Errorf("String = %s, want %s", result, want)
	}
}

func TestWalkerInterfaceField(t *testing.T) {
	type holder struct {
		V any `json:"v"`
	}

	w := New(DefaultConfig())
	want := `{"v":{"title":"Clean Code","email":"ro****@example.com","phoneNumber":"071****678","publisher":"Prentice Hall"}}`
	if result := w.String(holder{V: sampleBook()}); result != want {
		t.Errorf("String = %s, want %s", result, want)
	}

	if result := w.String(holder{}); result != `{"v":null}` {
		t.Errorf("String = %s, want null interface", result)
	}
}

type apiToken struct {
	value string
}

func (apiToken) MaskedValue() any { return "[token]" }

func TestWalkerMaskableOverride(t *testing.T) {
	type session struct {
		User  string   `json:"user"`
		Token apiToken `json:"token"`
	}

	w := New(DefaultConfig())
	s := session{User: "ann", Token: apiToken{value: "s3cr3t"}}

	want := `{"user":"ann","token":"[token]"}`
	if result := w.String(s); result != want {
		t.Errorf("String = %s, want %s", result, want)
	}
}

func TestWalkerFallbackOnRenderFailure(t *testing.T) {
	type unrenderable struct {
		Hooks map[string]func() `json:"hooks"`
	}

	w := New(DefaultConfig())
	u := unrenderable{Hooks: map[string]func(){"f": func() {}}}

	result := w.String(u)
	if result == "" {
		t.Fatal("String returned empty instead of falling back")
	}
	if result != fmt.Sprint(u) {
		t.Errorf("String = %q, want plain fallback %q", result, fmt.Sprint(u))
	}
}

func TestWalkerChanField(t *testing.T) {
	type weird struct {
		C chan int `json:"c"`
	}

	w := New(DefaultConfig())
	want := `{"c":"chan int"}`
	if result := w.String(weird{C: make(chan int)}); result != want {
		t.Errorf("String = %s, want %s", result, want)
	}
}

func TestWalkerConcurrent(t *testing.T) {
	w := New(DefaultConfig())
	b := sampleBook()
	want := w.String(b)

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 50; j++ {
				if result := w.String(b); result != want {
					t.Errorf("concurrent String = %s, want %s", result, want)
					return
				}
			}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}

func TestWalkerStyler(t *testing.T) {
	w := New(DefaultConfig())

	// The walker's styler is the string-level engine it masks with
	if got := w.Styler().MaskDefault("john@gmail.com"); got != "jo**@gmail.com" {
		t.Errorf("Styler().MaskDefault = %q, want jo**@gmail.com", got)
	}
}

func TestRegister(t *testing.T) {
	if err := Register[book](); err != nil {
		t.Errorf("Register[book] = %v, want nil", err)
	}
}

func TestRegisterInvalidTag(t *testing.T) {
	t.Cleanup(ResetPlans)

	type badTag struct {
		X string `mask:"banana"`
	}

	if err := Register[badTag](); err == nil {
		t.Error("Register[badTag] = nil, want directive error")
	}

	// The walker still masks the field, degrading the bad style to default
	w := New(DefaultConfig())
	result := w.String(badTag{X: "john@gmail.com"})
	if !strings.Contains(result, "jo**@gmail.com") {
		t.Errorf("String = %s, want field masked with default style", result)
	}
}
