package s2k

// Cache memoizes ProduceKey results keyed by the exact (S2K specifier,
// requested key length) pair, so that certificates whose subkeys share one
// passphrase and one set of S2K parameters — the common case — do not
// repeat an expensive iterated-salted derivation once per subkey. Adapted
// from the teacher lineage's s2k_cache.go.
type Cache struct {
	derived map[cacheKey][]byte
}

type cacheKey struct {
	params    Params
	keyLength int
}

// NewCache returns an empty Cache.
func NewCache() *Cache {
	return &Cache{derived: make(map[cacheKey][]byte)}
}

func (c *Cache) addDerivedKey(params *Params, keyLength int, key []byte) {
	c.derived[cacheKey{params: *params, keyLength: keyLength}] = key
}

// GetDerivedKeyOrElseCompute returns the cached key for (params, keyLength)
// if one exists, otherwise derives it via ProduceKey and caches the result
// before returning it.
func (c *Cache) GetDerivedKeyOrElseCompute(passphrase []byte, params *Params, keyLength int, hf HashFunc) ([]byte, error) {
	key := cacheKey{params: *params, keyLength: keyLength}
	if cached, ok := c.derived[key]; ok {
		return cached, nil
	}
	derived, err := params.ProduceKey(passphrase, keyLength, hf)
	if err != nil {
		return nil, err
	}
	c.addDerivedKey(params, keyLength, derived)
	return derived, nil
}

// Reset discards every cached key.
func (c *Cache) Reset() {
	c.derived = make(map[cacheKey][]byte)
}
