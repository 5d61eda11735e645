package sqldb

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

// RawSQLStore maps `group.name` keys to ready-to-run statements of one dialect.
// Read-only after loading.
type RawSQLStore struct {
	dbType string
	stmts  map[string]string
}

func NewRawStore(dbType string) *RawSQLStore {
	return &RawSQLStore{dbType: dbType, stmts: make(map[string]string)}
}

func (s *RawSQLStore) Set(key string, rawStmt string) {
	s.stmts[key] = rawStmt
}

func (s *RawSQLStore) Get(key string) (string, bool) {
	stmt, exists := s.stmts[key]
	return stmt, exists
}

// MustGet panics on a missing key; statements are embedded, so a miss is a build defect
func (s *RawSQLStore) MustGet(key string) string {
	stmt, ok := s.stmts[key]
	if !ok {
		panic(fmt.Sprintf("sqldb: raw statement %q not loaded for %s", key, s.dbType))
	}
	return stmt
}

func (s *RawSQLStore) Keys() []string {
	keys := make([]string, 0, len(s.stmts))
	for k := range s.stmts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type StoreGroupedStmtKey struct {
	Group    string
	StmtName string
}

func (k StoreGroupedStmtKey) String() string {
	return k.Group + "." + k.StmtName
}

// LoadRawStmts reads `dir/*.sql` and `dir/*.<dbType>` from fsys into the store.
// A dialect file wins over the standard file of the same name; standard files
// get their static `?` placeholders converted for the dialect.
// Returns the number of statements loaded.
func (s *RawSQLStore) LoadRawStmts(fsys fs.FS, dir string, group string) (int, error) {
	files, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read embedded `%s` dir. %w", dir, err)
	}
	prefix := PlaceholderPrefixForDBType[s.dbType]
	stmtCnt := 0
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		filename := f.Name()
		ext := path.Ext(filename)
		name := strings.TrimSuffix(filename, ext)
		ext = strings.TrimPrefix(ext, ".")
		if ext != s.dbType && ext != "sql" {
			continue
		}
		data, err := fs.ReadFile(fsys, path.Join(dir, filename))
		if err != nil {
			return stmtCnt, fmt.Errorf("failed to read %s: %w", filename, err)
		}
		key := StoreGroupedStmtKey{Group: group, StmtName: name}.String()

		switch ext {
		case s.dbType:
			// exact matching file extension -> use it as-is for dialects
			if _, exists := s.Get(key); !exists {
				stmtCnt++
			}
			s.Set(key, string(data))
		case "sql":
			if _, exists := s.Get(key); !exists {
				s.Set(key, ReplaceStaticPlaceholders(string(data), prefix))
				stmtCnt++
			}
		}
	}
	return stmtCnt, nil
}
