package drbg

import (
	"testing"
)

func TestSelfTest(t *testing.T) {
	if err := SelfTest(); err != nil {
		t.Fatalf("SelfTest: %v", err)
	}
}

func TestKnownAnswerTests(t *testing.T) {
	for i := range knownAnswerTests {
		kat := &knownAnswerTests[i]
		if err := kat.check(); err != nil {
			t.Errorf("%v", err)
		}
		if kat.params.Name() != kat.name {
			t.Errorf("%s has parameters of %s", kat.name, kat.params.Name())
		}
	}
}

func TestKnownAnswerTestDetectsMismatch(t *testing.T) {
	kat := knownAnswerTests[0]
	kat.expect = "00" + kat.expect[2:]
	if err := kat.check(); err == nil {
		t.Fatalf("check() should fail on a wrong expected value")
	}
}

func TestFixedEntropySource(t *testing.T) {
	es := newFixedEntropySource(seq(4, 0), seq(2, 9))
	if es.EntropySize() != 32 {
		t.Fatalf("EntropySize() = %d", es.EntropySize())
	}
	es.GetEntropy()
	if buf, err := es.GetEntropy(); err != nil || len(buf) != 2 {
		t.Fatalf("second GetEntropy: %x %v", buf, err)
	}
	if _, err := es.GetEntropy(); err == nil {
		t.Fatalf("GetEntropy should fail when exhausted")
	}
}
