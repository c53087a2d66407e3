package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cliEnv writes a config that keeps budgets as JSON documents in a temp dir.
func cliEnv(t *testing.T) string {
	t.Helper()
	t.Setenv("PAYCHECK_TOKEN", "")
	t.Setenv("PAYCHECK_STORE", "")
	t.Setenv("PAYCHECK_PASSPHRASE", "")
	t.Setenv("PAYCHECK_JWT_SECRET", "")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := `
[store]
driver = "jsonfile"
data_dir = "` + filepath.ToSlash(filepath.Join(dir, "budgets")) + `"

[auth]
jwt_secret = "cli-secret"
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func run(t *testing.T, configPath string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd(&out)
	root.SetArgs(append([]string{"--config", configPath}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestNetPay_PrintsBreakdown(t *testing.T) {
	cfg := cliEnv(t)

	out, err := run(t, cfg, "netpay", "56750")
	require.NoError(t, err)

	assert.Contains(t, out, "2554")
	assert.Contains(t, out, "4030")
	assert.Contains(t, out, "5943")
	assert.Contains(t, out, "44223")
}

func TestNetPay_RejectsGarbage(t *testing.T) {
	cfg := cliEnv(t)

	_, err := run(t, cfg, "netpay", "lots")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid gross")
}

func TestExpense_AddListRemove(t *testing.T) {
	cfg := cliEnv(t)

	// GIVEN two saved expenses
	_, err := run(t, cfg, "expense", "add", "--id", "rent", "--name", "Rent", "--amount", "15000", "--day", "1")
	require.NoError(t, err)
	_, err = run(t, cfg, "expense", "add", "--id", "gym", "--name", "Gym", "--amount", "300", "--day", "5")
	require.NoError(t, err)

	// WHEN listing
	out, err := run(t, cfg, "expense", "ls")
	require.NoError(t, err)

	// THEN both are shown ordered by day, with the total
	assert.Less(t, strings.Index(out, "Rent"), strings.Index(out, "Gym"))
	assert.Contains(t, out, "Total 15300")

	// WHEN one is removed
	_, err = run(t, cfg, "expense", "rm", "rent")
	require.NoError(t, err)

	out, err = run(t, cfg, "expense", "ls")
	require.NoError(t, err)
	assert.NotContains(t, out, "Rent")
	assert.Contains(t, out, "Total 300")
}

func TestExpense_Validation(t *testing.T) {
	cfg := cliEnv(t)

	_, err := run(t, cfg, "expense", "add", "--name", "Rent", "--amount", "15000", "--day", "31")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "day")

	_, err = run(t, cfg, "expense", "rm", "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no expense with id "missing"`)
}

func TestIncome_SetOnlyChangesGivenFields(t *testing.T) {
	cfg := cliEnv(t)

	out, err := run(t, cfg, "income", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "45000")

	_, err = run(t, cfg, "income", "set", "--gross", "52000", "--start-month", "0")
	require.NoError(t, err)

	out, err = run(t, cfg, "income", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "52000")
	assert.Contains(t, out, "5000")
	assert.Contains(t, out, "15%")
	assert.Contains(t, out, "January (0)")
}

func TestIncome_SetRejectsInvalidProfile(t *testing.T) {
	cfg := cliEnv(t)

	_, err := run(t, cfg, "income", "set", "--start-month", "12")
	require.Error(t, err)

	out, err := run(t, cfg, "income", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "February (1)")
}

func TestPaydays_MarksPremiumMonths(t *testing.T) {
	cfg := cliEnv(t)

	out, err := run(t, cfg, "paydays", "--year", "2026")
	require.NoError(t, err)

	assert.Equal(t, 12, strings.Count(out, "2026-"))
	assert.Equal(t, 4, strings.Count(out, "yes"))
	assert.Contains(t, out, "2026-08-10")
}

func TestTimeline_ShowsItemsUntilPayday(t *testing.T) {
	cfg := cliEnv(t)

	_, err := run(t, cfg, "expense", "add", "--name", "Gym", "--amount", "300", "--day", "6")
	require.NoError(t, err)
	_, err = run(t, cfg, "expense", "add", "--name", "Rent", "--amount", "15000", "--day", "1")
	require.NoError(t, err)

	out, err := run(t, cfg, "timeline", "--today", "2026-01-05")
	require.NoError(t, err)

	assert.Contains(t, out, "next payday 2026-01-08")
	assert.Contains(t, out, "Gym")
	assert.Contains(t, out, "Salary")
	// Rent is next due on Feb 1, after the payday
	assert.NotContains(t, out, "Rent")
	assert.Contains(t, out, "Monthly expenses  15300")
}

func TestToken_ActsAsSignedInUser(t *testing.T) {
	cfg := cliEnv(t)

	out, err := run(t, cfg, "token", "bob", "--name", "Bob")
	require.NoError(t, err)
	token := strings.TrimSpace(out)
	require.NotEmpty(t, token)

	// GIVEN an expense saved as bob
	_, err = run(t, cfg, "--token", token, "expense", "add", "--name", "Bob rent", "--amount", "9000", "--day", "1")
	require.NoError(t, err)

	// THEN bob sees it and the anonymous budget does not
	out, err = run(t, cfg, "--token", token, "expense", "ls")
	require.NoError(t, err)
	assert.Contains(t, out, "Bob rent")

	out, err = run(t, cfg, "expense", "ls")
	require.NoError(t, err)
	assert.NotContains(t, out, "Bob rent")
}

func TestRenderTable_AlignsColumns(t *testing.T) {
	var out bytes.Buffer
	renderTable(&out, table{
		Headers: []string{"Name", "Amount"},
		Rows:    [][]string{{"Rent", "15000"}, {"Gym", "-300"}},
	})

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "│ Rent │  15000 │", lines[3])
	assert.Equal(t, "│ Gym  │   -300 │", lines[4])
	for _, line := range lines {
		assert.Equal(t, len([]rune(lines[0])), len([]rune(line)))
	}
}

func TestToken_InvalidTokenFails(t *testing.T) {
	cfg := cliEnv(t)

	_, err := run(t, cfg, "--token", "not-a-jwt", "expense", "ls")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sign-in failed")
}

func TestOpen_FailedSignInClosesStore(t *testing.T) {
	cfg := cliEnv(t)

	a := &app{out: &bytes.Buffer{}, flagConfig: cfg, flagToken: "not-a-jwt"}
	require.NoError(t, a.loadConfig())

	err := a.open()
	require.Error(t, err)
	assert.Nil(t, a.store)
}
