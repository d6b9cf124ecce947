package drbg

import (
	"bytes"
	"encoding/hex"
	"runtime"
	"sync"

	"github.com/hashicorp/go-multierror"
)

// EntropySource that returns the given chunks in order.  Used to replay
// known-answer tests.
type fixedEntropySource struct {
	bits   int
	chunks [][]byte
}

func newFixedEntropySource(chunks ...[]byte) *fixedEntropySource {
	return &fixedEntropySource{bits: 8 * len(chunks[0]), chunks: chunks}
}

func (es *fixedEntropySource) EntropySize() int {
	return es.bits
}

func (es *fixedEntropySource) GetEntropy() ([]byte, error) {
	if len(es.chunks) == 0 {
		return nil, errorf("fixed entropy source is exhausted")
	}
	ret := es.chunks[0]
	es.chunks = es.chunks[1:]
	return ret, nil
}

// Known-answer test: instantiate, optionally reseed, then one generate
// call per entry of ai.  The output of the last call must equal expect.
type knownAnswerTest struct {
	name     string
	params   Params
	entropy  []string // the first instantiates, the others reseed
	nonce    string
	pers     string
	reseed   bool
	reseedAI string
	ai       []string
	expect   string
}

var knownAnswerTests = []knownAnswerTest{
	{
		name:    "HMAC-SHA-256",
		params:  Params{Mech: HMAC, Hash: SHA256, Strength: 256},
		entropy: []string{"ca851911349384bffe89de1cbdc46e6831e44d34a4fb935ee285dd14b71a7488"},
		nonce:   "659ba96c601dc69fc902940805ec0ca8",
		ai:      []string{"", ""},
		expect: "e528e9abf2dece54d47c7e75e5fe302149f817ea9fb4bee6f4199697d04d5b89" +
			"d54fbb978a15b5c443c9ec21036d2460b6f73ebad0dc2aba6e624abf07745bc1" +
			"07694bb7547bb0995f70de25d6b29e2d3011bb19d27676c07162c8b5ccde0668" +
			"961df86803482cb37ed6d5c0bb8d50cf1f50d476aa0458bdaba806f48be9dcb8",
	},
	{
		name:    "CTR-AES-128",
		params:  Params{Mech: CTR, Cipher: AES128, Strength: 128},
		entropy: []string{"890eb067acf7382eff80b0c73bc872c6"},
		nonce:   "aad471ef3ef1d203",
		ai:      []string{"", ""},
		expect: "a5514ed7095f64f3d0d3a5760394ab42062f373a25072a6ea6bcfd8489e94af6" +
			"cf18659fea22ed1ca0a9e33f718b115ee536b12809c31b72b08ddd8be1910fa3",
	},
	{
		name:   "CTR-AES-256-NoDF",
		params: Params{Mech: CTR, Cipher: AES256, Strength: 256, NoDF: true},
		entropy: []string{
			"99903165903fea49c2db26ed675e44cc14cb2c1f28b836b203240b02771e8311" +
				"46ffc4335373bb344688c5c950670291",
			"b4ee99fa9e0eddaf4a3612013cd636c4af69177b43eebb3c58a305b9979b68b5" +
				"cc820504f6c029aad78a5d29c66e84a0",
		},
		reseed: true,
		reseedAI: "2d8c5c28b05696e74774eb69a10f01c5fabc62691ddf7848a8004bb5eeb4d2c5" +
			"febe1aa01f4d557b23d7e9a0e4e90655",
		ai: []string{
			"0dc9cde42ac6e856f01a55f219c614de90c659260948db5053d414bab0ec2e13" +
				"e995120c3eb5aafc25dc4bdcef8ace24",
			"711be6c035013189f362211889248ca8a3268e63a7eb26836d915810a680ac4a" +
				"33cd1180811a31a0f44f08db3dd64f91",
		},
		expect: "11c7a0326ea737baa7a993d510fafee5374e7bbe17ef0e3e29f50fa68aac2124" +
			"b017d449768491cac06d136d691a4e80785739f9aaedf311bba752a3268cc531",
	},
	{
		name:    "Hash-SHA-256",
		params:  Params{Mech: Hash, Hash: SHA256, Strength: 256},
		entropy: []string{"a65ad0f345db4e0effe875c3a2e71f42c7129d620ff5c119a9ef55f05185e0fb"},
		nonce:   "8581f9317517276e06e9607ddbcbcc2e",
		ai:      []string{"", ""},
		expect: "d3e160c35b99f340b2628264d1751060e0045da383ff57a57d73a673d2b8d80d" +
			"aaf6a6c35a91bb4579d73fd0c8fed111b0391306828adfed528f018121b3febd" +
			"c343e797b87dbb63db1333ded9d1ece177cfa6b71fe8ab1da46624ed6415e51c" +
			"cde2c7ca86e283990eeaeb91120415528b2295910281b02dd431f4c9f70427df",
	},
	{
		name:    "DualEC-P-256-SHA-256",
		params:  Params{Mech: DualEC, Hash: SHA256, Strength: 128},
		entropy: []string{"000102030405060708090a0b0c0d0e0f"},
		ai:      []string{""},
		expect:  "d362a9aae889c45cf89e02344164d99f01078d36492130d4b42873774a59",
	},
	{
		name:    "CTR-TDEA",
		params:  Params{Mech: CTR, Cipher: TDEA, Strength: 112},
		entropy: []string{"000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c"},
		nonce:   "20212223242526",
		ai:      []string{"", ""},
		expect:  "d3d3f372e43e7abdc4fa293743eed076",
	},
}

func mustDecodeHex(s string) []byte {
	ret, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return ret
}

// Runs a single known-answer test and returns the output of the last
// generate call.
func (kat *knownAnswerTest) run() ([]byte, Error) {
	chunks := make([][]byte, len(kat.entropy))
	for i, e := range kat.entropy {
		chunks[i] = mustDecodeHex(e)
	}
	d, err := New(kat.params, newFixedEntropySource(chunks...),
		mustDecodeHex(kat.pers), mustDecodeHex(kat.nonce))
	if err != nil {
		return nil, err
	}
	if kat.reseed {
		if err = d.Reseed(mustDecodeHex(kat.reseedAI)); err != nil {
			return nil, err
		}
	}
	out := make([]byte, len(kat.expect)/2)
	for _, ai := range kat.ai {
		n, err := d.Generate(out, mustDecodeHex(ai), false)
		if err != nil {
			return nil, err
		}
		if n != 8*len(out) {
			return nil, errorf("Generate returned %d instead of %d",
				n, 8*len(out))
		}
	}
	return out, nil
}

func (kat *knownAnswerTest) check() Error {
	out, err := kat.run()
	if err != nil {
		return wrapErrorf(err, "%s", kat.name)
	}
	if !bytes.Equal(out, mustDecodeHex(kat.expect)) {
		return errorf("%s: output is %x instead of %s", kat.name, out,
			kat.expect)
	}
	return nil
}

// Runs the built-in known-answer tests of every mechanism in parallel
// and returns all failures.
func SelfTest() error {
	var result *multierror.Error
	wg := &sync.WaitGroup{}
	mux := &sync.Mutex{}
	idx := 0

	threads := runtime.NumCPU()
	if threads > len(knownAnswerTests) {
		threads = len(knownAnswerTests)
	}
	wg.Add(threads)
	for i := 0; i < threads; i++ {
		go func() {
			for {
				mux.Lock()
				ourIdx := idx
				idx++
				mux.Unlock()
				if ourIdx >= len(knownAnswerTests) {
					break
				}
				kat := &knownAnswerTests[ourIdx]
				err := kat.check()
				mux.Lock()
				if err != nil {
					result = multierror.Append(result, err)
				} else {
					log.Logf("Self test %s passed", kat.name)
				}
				mux.Unlock()
			}
			wg.Done()
		}()
	}

	wg.Wait() // wait for all workers to finish
	return result.ErrorOrNil()
}
