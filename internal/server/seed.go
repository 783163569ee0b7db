package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/bughunt/backend/internal/engine"
)

// Seed makes a fresh database playable: demo problems when none
// exist, and the configured admin account. Idempotent.
func Seed(ctx context.Context, logger *slog.Logger, store Store, adminEmail, adminPassword string) error {
	n, err := store.CountProblems(ctx)
	if err != nil {
		return fmt.Errorf("counting problems: %w", err)
	}
	if n == 0 {
		for _, p := range demoProblems() {
			if err := store.CreateProblem(ctx, p); err != nil {
				return fmt.Errorf("seeding problem %s: %w", p.ID, err)
			}
		}
		logger.Info("demo problems seeded", "count", len(demoProblems()))
	}

	adminEmail = strings.TrimSpace(strings.ToLower(adminEmail))
	if adminEmail == "" || adminPassword == "" {
		logger.Warn("no admin seeded, set ADMIN_EMAIL and ADMIN_PASSWORD to enable the admin API")
		return nil
	}

	_, _, err = store.AdminByEmail(ctx, adminEmail)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("looking up admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing admin password: %w", err)
	}
	if err := store.CreateAdmin(ctx, adminEmail, string(hash)); err != nil {
		return fmt.Errorf("creating admin: %w", err)
	}
	logger.Info("admin account created", "email", adminEmail)
	return nil
}

func demoProblems() []engine.Problem {
	return []engine.Problem{
		{
			ID:       "go-nil-map",
			Language: "go",
			Level:    1,
			Code: []string{
				"func countWords(words []string) map[string]int {",
				"	var counts map[string]int",
				"	for _, w := range words {",
				"		counts[w]++",
				"	}",
				"	return counts",
				"}",
			},
			Issues: []engine.Issue{
				{
					ID: "nil-map-write", Lines: []int{2, 4},
					Category: engine.CategoryBug, Severity: engine.SeverityCritical, BaseScore: 5,
					Descriptions: map[string]string{
						"en": "Writing to a nil map panics; the map is declared but never initialized.",
						"ja": "nilマップへの書き込みはパニックします。マップが初期化されていません。",
					},
				},
			},
		},
		{
			ID:       "go-sql-concat",
			Language: "go",
			Level:    2,
			Code: []string{
				"func deleteUser(db *sql.DB, id string) error {",
				"	query := \"DELETE FROM users WHERE id = '\" + id + \"'\"",
				"	_, err := db.Exec(query)",
				"	return err",
				"}",
			},
			Issues: []engine.Issue{
				{
					ID: "sql-injection", Lines: []int{2},
					Category: engine.CategorySecurity, Severity: engine.SeverityCritical, BaseScore: 6,
					Descriptions: map[string]string{
						"en": "User input concatenated into SQL allows injection; use a placeholder instead.",
						"ja": "ユーザー入力をSQLに連結するとインジェクションが可能になります。プレースホルダを使ってください。",
					},
				},
			},
		},
		{
			ID:       "go-defer-loop",
			Language: "go",
			Level:    3,
			Code: []string{
				"func readAll(paths []string) ([][]byte, error) {",
				"	var out [][]byte",
				"	for _, p := range paths {",
				"		f, err := os.Open(p)",
				"		if err != nil {",
				"			return nil, err",
				"		}",
				"		defer f.Close()",
				"		b, _ := io.ReadAll(f)",
				"		out = append(out, b)",
				"	}",
				"	return out, nil",
				"}",
			},
			Issues: []engine.Issue{
				{
					ID: "defer-in-loop", Lines: []int{8},
					Category: engine.CategoryPerformance, Severity: engine.SeverityNormal, BaseScore: 4,
					Descriptions: map[string]string{
						"en": "Deferring inside the loop keeps every file open until the function returns.",
						"ja": "ループ内のdeferは関数が戻るまで全ファイルを開いたままにします。",
					},
				},
				{
					ID: "ignored-error", Lines: []int{9},
					Category: engine.CategoryBug, Severity: engine.SeverityNormal, BaseScore: 3,
					Descriptions: map[string]string{
						"en": "The read error is discarded; a partial read is silently treated as success.",
						"ja": "読み込みエラーが破棄され、部分的な読み込みが成功扱いになります。",
					},
				},
			},
		},
		{
			ID:       "python-mutable-default",
			Language: "python",
			Level:    1,
			Code: []string{
				"def append_item(item, items=[]):",
				"    items.append(item)",
				"    return items",
			},
			Issues: []engine.Issue{
				{
					ID: "mutable-default", Lines: []int{1},
					Category: engine.CategoryBug, Severity: engine.SeverityNormal, BaseScore: 4,
					Descriptions: map[string]string{
						"en": "The mutable default list is shared across calls; use None and create inside.",
						"ja": "可変デフォルト引数は呼び出し間で共有されます。Noneを使い関数内で生成してください。",
					},
				},
			},
		},
		{
			ID:       "python-eval-input",
			Language: "python",
			Level:    2,
			Code: []string{
				"def calculate(expression):",
				"    result = eval(expression)",
				"    print(\"result: \" + str(result))",
				"    return result",
			},
			Issues: []engine.Issue{
				{
					ID: "eval-untrusted", Lines: []int{2},
					Category: engine.CategorySecurity, Severity: engine.SeverityCritical, BaseScore: 6,
					Descriptions: map[string]string{
						"en": "eval on untrusted input executes arbitrary code; parse the expression instead.",
						"ja": "信頼できない入力へのevalは任意コード実行になります。式をパースしてください。",
					},
				},
			},
		},
		{
			ID:       "javascript-loose-equality",
			Language: "javascript",
			Level:    1,
			Code: []string{
				"function isEmpty(value) {",
				"  if (value == null || value == '') {",
				"    return true;",
				"  }",
				"  return false;",
				"}",
			},
			Issues: []engine.Issue{
				{
					ID: "loose-equality", Lines: []int{2},
					Category: engine.CategoryBug, Severity: engine.SeverityMinor, BaseScore: 2,
					Descriptions: map[string]string{
						"en": "Loose equality coerces types: 0 == '' is true, so isEmpty(0) wrongly returns true.",
						"ja": "緩い等価比較は型変換します。0 == '' はtrueなのでisEmpty(0)が誤ってtrueになります。",
					},
				},
			},
		},
		{
			ID:       "javascript-n-plus-one",
			Language: "javascript",
			Level:    3,
			Code: []string{
				"async function loadAuthors(posts) {",
				"  const authors = [];",
				"  for (const post of posts) {",
				"    const author = await db.users.findById(post.authorId);",
				"    authors.push(author);",
				"  }",
				"  return authors;",
				"}",
			},
			Issues: []engine.Issue{
				{
					ID: "n-plus-one", Lines: []int{3, 4},
					Category: engine.CategoryPerformance, Severity: engine.SeverityNormal, BaseScore: 5,
					Descriptions: map[string]string{
						"en": "One query per post; batch the lookups or fetch all authors in a single query.",
						"ja": "投稿ごとに1クエリ発行しています。まとめて1クエリで取得してください。",
					},
				},
				{
					ID: "no-dedupe", Lines: []int{4},
					Category: engine.CategoryDesign, Severity: engine.SeverityMinor, BaseScore: 2,
					Descriptions: map[string]string{
						"en": "Duplicate author IDs are fetched repeatedly; deduplicate before querying.",
						"ja": "重複する著者IDを繰り返し取得しています。クエリ前に重複排除してください。",
					},
				},
			},
		},
	}
}
