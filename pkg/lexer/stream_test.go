package lexer

import (
	"testing"
	"time"
)

func TestStreamReadAndSeek(t *testing.T) {
	ts := NewTokenStream()
	for _, v := range []string{"a", "b", "c"} {
		if err := ts.Write(Token{Type: TokIdent, Value: v}); err != nil {
			t.Fatal(err)
		}
	}
	ts.Close()

	if tok, ok := ts.Seek(2); !ok || tok.Value != "c" {
		t.Fatalf("Seek(2) = %v, %v", tok, ok)
	}
	if tok, ok := ts.Read(); !ok || tok.Value != "a" {
		t.Fatalf("Read() = %v, %v", tok, ok)
	}
	if tok, ok := ts.Seek(0); !ok || tok.Value != "b" {
		t.Fatalf("Seek(0) = %v, %v", tok, ok)
	}
	if _, ok := ts.Seek(2); ok {
		t.Fatal("seeking past the end of a closed stream should fail")
	}
	ts.Read()
	ts.Read()
	if !ts.Exhausted() {
		t.Error("expected stream to be exhausted")
	}
	if _, ok := ts.Read(); ok {
		t.Error("read after exhaustion should fail")
	}
}

func TestStreamWriteAfterClose(t *testing.T) {
	ts := NewTokenStream()
	if err := ts.Close(); err != nil {
		t.Fatal(err)
	}
	if err := ts.Write(Token{}); err != ErrStreamClosed {
		t.Errorf("got %v, want ErrStreamClosed", err)
	}
	if err := ts.Close(); err != ErrStreamClosed {
		t.Errorf("got %v, want ErrStreamClosed", err)
	}
}

func TestStreamReaderWaitsForProducer(t *testing.T) {
	ts := NewTokenStream()
	got := make(chan Token)
	go func() {
		tok, _ := ts.Seek(1)
		got <- tok
	}()

	ts.Write(Token{Type: TokIdent, Value: "first"})
	select {
	case tok := <-got:
		t.Fatalf("seek returned %v before the token was produced", tok)
	case <-time.After(20 * time.Millisecond):
	}

	ts.Write(Token{Type: TokIdent, Value: "second"})
	select {
	case tok := <-got:
		if tok.Value != "second" {
			t.Errorf("got %q, want second", tok.Value)
		}
	case <-time.After(time.Second):
		t.Fatal("seek did not wake up after write")
	}
}

func TestStreamCloseWakesReader(t *testing.T) {
	ts := NewTokenStream()
	done := make(chan bool)
	go func() {
		_, ok := ts.Read()
		done <- ok
	}()
	ts.Close()
	select {
	case ok := <-done:
		if ok {
			t.Error("expected read to fail on an empty closed stream")
		}
	case <-time.After(time.Second):
		t.Fatal("read did not wake up after close")
	}
}

func TestConcurrentProducer(t *testing.T) {
	ts := NewTokenStream()
	go func() {
		NewTokenizer(stringsReader("a + b * c"), "").Produce(ts)
	}()
	var got []TokenType
	for {
		tok, ok := ts.Read()
		if !ok {
			break
		}
		got = append(got, tok.Type)
	}
	want := []TokenType{TokIdent, TokPlus, TokIdent, TokStar, TokIdent, TokEOF}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
