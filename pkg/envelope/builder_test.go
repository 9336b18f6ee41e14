package envelope

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Elydora-Infrastructure/Elydora-Node-SDK/pkg/canonicalize"
	"github.com/Elydora-Infrastructure/Elydora-Node-SDK/pkg/contracts"
	"github.com/Elydora-Infrastructure/Elydora-Node-SDK/pkg/crypto"
)

func testSeed() string {
	return canonicalize.B64uEncode(bytes.Repeat([]byte{1}, 32))
}

func testBuilder(t *testing.T) *Builder {
	t.Helper()
	b, err := NewBuilder(Config{
		OrgID:       "o",
		AgentID:     "a",
		PrivateSeed: testSeed(),
		KID:         "a-key-v1",
	})
	require.NoError(t, err)
	return b
}

func mapping(kv ...string) canonicalize.Value {
	members := make(map[string]canonicalize.Value)
	for i := 0; i+1 < len(kv); i += 2 {
		members[kv[i]] = canonicalize.String(kv[i+1])
	}
	return canonicalize.Object(members)
}

func TestNewBuilderValidation(t *testing.T) {
	_, err := NewBuilder(Config{AgentID: "a", PrivateSeed: testSeed(), KID: "k"})
	assert.True(t, contracts.IsCode(err, contracts.CodeValidationError))

	_, err = NewBuilder(Config{OrgID: "o", PrivateSeed: testSeed(), KID: "k"})
	assert.True(t, contracts.IsCode(err, contracts.CodeValidationError))

	_, err = NewBuilder(Config{OrgID: "o", AgentID: "a", PrivateSeed: testSeed()})
	assert.True(t, contracts.IsCode(err, contracts.CodeValidationError))

	_, err = NewBuilder(Config{OrgID: "o", AgentID: "a", PrivateSeed: "AAAA", KID: "k"})
	assert.True(t, contracts.IsCode(err, contracts.CodeValidationError))
}

func TestBuilderStartsAtGenesis(t *testing.T) {
	b := testBuilder(t)
	assert.Equal(t, crypto.ZeroChainHash, b.ChainHead())
}

// TestBuildDeterministicFixture freezes the clock, identifier, and nonce and
// pins every derived field of the first record on a fresh chain.
func TestBuildDeterministicFixture(t *testing.T) {
	const (
		opID     = "01932c9c-f800-7000-8000-000000000001"
		nonce    = "AAECAwQFBgcICQoLDA0ODw"
		issuedAt = int64(1_700_000_000_000)

		wantPayloadHash = "UEG_H3E98gR4Q1PoL2pKU1kxy2Tx9LSlrq_8tyCRiyI"
		wantChainHash   = "33sg_37AJcSrx1Nlb16GDP3FYWGYrpdG0U6NmCqWG3w"
	)

	b := testBuilder(t)
	b.nowMillis = func() int64 { return issuedAt }
	b.newOperationID = func() (string, error) { return opID, nil }
	b.newNonce = func() (string, error) { return nonce, nil }

	payload, err := canonicalize.FromJSON([]byte(`{"x":1}`))
	require.NoError(t, err)
	signed, err := b.Build(BuildParams{
		OperationType: "file.edit",
		Subject:       mapping("path", "main.go"),
		Action:        mapping("kind", "write"),
		Payload:       payload,
	})
	require.NoError(t, err)

	rec := signed.Record
	assert.Equal(t, contracts.OpVersion, rec.OpVersion)
	assert.Equal(t, opID, rec.OperationID)
	assert.Equal(t, "o", rec.OrgID)
	assert.Equal(t, "a", rec.AgentID)
	assert.Equal(t, issuedAt, rec.IssuedAt)
	assert.Equal(t, int64(DefaultTTLMillis), rec.TTLMillis)
	assert.Equal(t, nonce, rec.Nonce)
	assert.Equal(t, wantPayloadHash, rec.PayloadHash)
	assert.Equal(t, crypto.ZeroChainHash, rec.PrevChainHash)
	assert.Equal(t, "a-key-v1", rec.AgentPubkeyKID)
	assert.Equal(t, wantChainHash, signed.ChainHash)
	assert.Equal(t, wantChainHash, b.ChainHead())

	unsigned := fmt.Sprintf(
		`{"action":{"kind":"write"},"agent_id":"a","agent_pubkey_kid":"a-key-v1",`+
			`"issued_at":1700000000000,"nonce":%q,"op_version":"1.0",`+
			`"operation_id":%q,"operation_type":"file.edit","org_id":"o",`+
			`"payload":{"x":1},"payload_hash":%q,"prev_chain_hash":%q,`+
			`"subject":{"path":"main.go"},"ttl_ms":30000}`,
		nonce, opID, wantPayloadHash, crypto.ZeroChainHash)

	ok, err := crypto.Verify(b.PublicKey(), rec.Signature, []byte(unsigned))
	require.NoError(t, err)
	assert.True(t, ok, "signature must verify over the canonical unsigned envelope")

	wantWire := unsigned[:len(unsigned)-len(`"subject":{"path":"main.go"},"ttl_ms":30000}`)] +
		fmt.Sprintf(`"signature":%q,"subject":{"path":"main.go"},"ttl_ms":30000}`, rec.Signature)
	assert.Equal(t, wantWire, string(signed.Canonical))
}

func TestBuildPayloadDefaultsToNull(t *testing.T) {
	b := testBuilder(t)
	signed, err := b.Build(BuildParams{
		OperationType: "noop",
		Subject:       mapping(),
		Action:        mapping(),
	})
	require.NoError(t, err)

	assert.Equal(t, crypto.SHA256B64u([]byte("null")), signed.Record.PayloadHash)
	assert.Nil(t, signed.Record.Payload)
	assert.Contains(t, string(signed.Canonical), `"payload":null`)
}

func TestBuildRejectsNonMappingSubjectAction(t *testing.T) {
	b := testBuilder(t)

	_, err := b.Build(BuildParams{
		OperationType: "x",
		Subject:       canonicalize.String("not a mapping"),
		Action:        mapping(),
	})
	assert.True(t, contracts.IsCode(err, contracts.CodeValidationError))

	_, err = b.Build(BuildParams{
		OperationType: "x",
		Subject:       mapping(),
		Action:        canonicalize.Int(3),
	})
	assert.True(t, contracts.IsCode(err, contracts.CodeValidationError))

	_, err = b.Build(BuildParams{Subject: mapping(), Action: mapping()})
	assert.True(t, contracts.IsCode(err, contracts.CodeValidationError))
}

func TestChainLinkage(t *testing.T) {
	b := testBuilder(t)

	first, err := b.Build(BuildParams{
		OperationType: "op.one",
		Subject:       mapping("s", "1"),
		Action:        mapping("a", "1"),
	})
	require.NoError(t, err)
	second, err := b.Build(BuildParams{
		OperationType: "op.two",
		Subject:       mapping("s", "2"),
		Action:        mapping("a", "2"),
	})
	require.NoError(t, err)

	assert.Equal(t, crypto.ZeroChainHash, first.Record.PrevChainHash)
	assert.Equal(t, first.ChainHash, second.Record.PrevChainHash)
	assert.Equal(t,
		ChainHash(first.Record.PrevChainHash, first.Record.PayloadHash, first.Record.OperationID, first.Record.IssuedAt),
		second.Record.PrevChainHash)
	assert.Equal(t, second.ChainHash, b.ChainHead())
}

// TestSignatureVerifiesAfterWireRoundTrip strips the signature from the wire
// form, re-canonicalizes, and verifies — the same procedure the server runs.
func TestSignatureVerifiesAfterWireRoundTrip(t *testing.T) {
	b := testBuilder(t)
	signed, err := b.Build(BuildParams{
		OperationType: "shell.exec",
		Subject:       mapping("cwd", "/tmp"),
		Action:        mapping("cmd", "ls"),
		Payload:       canonicalize.Array(canonicalize.Int(1), canonicalize.String("two")),
	})
	require.NoError(t, err)

	dec := json.NewDecoder(bytes.NewReader(signed.Canonical))
	dec.UseNumber()
	var wire map[string]any
	require.NoError(t, dec.Decode(&wire))
	sig, _ := wire["signature"].(string)
	require.NotEmpty(t, sig)
	delete(wire, "signature")

	unsignedValue, err := canonicalize.FromAny(wire)
	require.NoError(t, err)
	unsigned, err := canonicalize.JCS(unsignedValue)
	require.NoError(t, err)

	ok, err := crypto.Verify(b.PublicKey(), sig, unsigned)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestConcurrentBuildsFormOneChain(t *testing.T) {
	b := testBuilder(t)
	const n = 64

	var wg sync.WaitGroup
	results := make([]*SignedOperation, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			signed, err := b.Build(BuildParams{
				OperationType: "concurrent.op",
				Subject:       mapping("i", fmt.Sprint(i)),
				Action:        mapping(),
			})
			if err != nil {
				t.Error(err)
				return
			}
			results[i] = signed
		}(i)
	}
	wg.Wait()

	// Every record links to exactly one predecessor; walking from genesis
	// must visit all n records.
	byPrev := make(map[string]*SignedOperation, n)
	for _, signed := range results {
		require.NotNil(t, signed)
		_, dup := byPrev[signed.Record.PrevChainHash]
		require.False(t, dup, "two records share prev_chain_hash %s", signed.Record.PrevChainHash)
		byPrev[signed.Record.PrevChainHash] = signed
	}
	head := crypto.ZeroChainHash
	for i := 0; i < n; i++ {
		signed, ok := byPrev[head]
		require.True(t, ok, "chain breaks after %d records", i)
		head = signed.ChainHash
	}
	assert.Equal(t, head, b.ChainHead())
}

func TestPublicKeyStable(t *testing.T) {
	b := testBuilder(t)
	other, err := NewBuilder(Config{
		OrgID:       "o2",
		AgentID:     "a2",
		PrivateSeed: testSeed(),
		KID:         "k2",
	})
	require.NoError(t, err)
	assert.Equal(t, b.PublicKey(), other.PublicKey())
}
