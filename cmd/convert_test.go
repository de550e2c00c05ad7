package cmd

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const samplePage = `<html lang="en">
<head><title>Sample Paper</title></head>
<body>
<article>
<h1>Sample Paper</h1>
<p>Mass and energy: <math alttext="E=mc^2"><mi>E</mi></math>.</p>
<div class="ltx_equation"><math alttext="\sum_i x_i = 1"><mi>x</mi></math></div>
<p><img src="fig1.png" alt="Figure 1"> <img src="fig1.png" alt="Figure 1 again"> <img src="missing.png" alt="gone"></p>
<section class="ltx_bibliography">
<h2>References</h2>
<ul class="ltx_biblist">
<li id="bib.bib1" class="ltx_bibitem">First Author. A classic.</li>
<li id="bib.bib2" class="ltx_bibitem">Second Author. Another classic.</li>
</ul>
</section>
</article>
<div class="ltx_page_footer">FOOTERSENTINEL</div>
</body>
</html>`

func paperServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/html/2301.00001", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(samplePage))
	})
	mux.HandleFunc("/html/fig1.png", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("png-bytes"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func runCommand(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errBuf bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errBuf)
	rootCmd.SetArgs(args)
	err = rootCmd.Execute()
	return out.String(), errBuf.String(), err
}

func TestConvertEndToEnd(t *testing.T) {
	srv := paperServer(t)
	dir := t.TempDir()

	stdout, stderr, err := runCommand(t, "convert", srv.URL+"/html/2301.00001", "--download-dir", dir)
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}

	mdPath := filepath.Join(dir, "2301.00001", "README.md")
	if !strings.Contains(stdout, mdPath) {
		t.Errorf("stdout = %q, want the markdown path %q", stdout, mdPath)
	}

	data, err := os.ReadFile(mdPath)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	markdown := string(data)

	if !strings.Contains(markdown, "# Sample Paper") {
		t.Errorf("missing title heading:\n%s", markdown)
	}
	if strings.Contains(markdown, "FOOTERSENTINEL") {
		t.Error("footer content survived sanitization")
	}
	if !strings.Contains(markdown, "$E=mc^2$") {
		t.Errorf("math not preserved as TeX:\n%s", markdown)
	}
	if !strings.Contains(markdown, "$$\n"+`\sum_i x_i = 1`+"\n$$") {
		t.Errorf("block math delimiters not on their own lines:\n%s", markdown)
	}
	if !strings.Contains(markdown, "assets/fig1.png") {
		t.Errorf("image reference not localized:\n%s", markdown)
	}
	if !strings.Contains(markdown, "missing.png") {
		t.Errorf("failed image reference should stay remote:\n%s", markdown)
	}
	if !strings.Contains(markdown, `<a id="bib.bib1"></a>`) || !strings.Contains(markdown, `<a id="bib.bib2"></a>`) {
		t.Errorf("bibliography anchors not restored:\n%s", markdown)
	}

	// Two references to fig1.png dedup into one local file.
	entries, err := os.ReadDir(filepath.Join(dir, "2301.00001", "assets"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "fig1.png" {
		t.Errorf("assets = %v, want exactly fig1.png", entries)
	}

	if c := strings.Count(stderr, "warn:"); c != 1 {
		t.Errorf("warning count = %d, want 1 for the failed image:\n%s", c, stderr)
	}

	if _, err := os.Stat(filepath.Join(dir, "2301.00001", "metadata.yaml")); err != nil {
		t.Errorf("metadata record missing: %v", err)
	}
}

func TestConvertFatalOnDocumentFetchFailure(t *testing.T) {
	srv := paperServer(t)
	dir := t.TempDir()

	_, stderr, err := runCommand(t, "convert", srv.URL+"/html/0000.00000", "--download-dir", dir)
	if err == nil {
		t.Fatal("expected an error for a missing document")
	}
	if !strings.Contains(err.Error(), "failed to fetch") {
		t.Errorf("err = %v, want a fetch failure", err)
	}
	if strings.Contains(stderr, "Error:") {
		t.Errorf("command printed the error itself, Execute should be the only reporter:\n%s", stderr)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "0000.00000")); !os.IsNotExist(statErr) {
		t.Error("output directory created despite fatal fetch failure")
	}
}

func TestConvertTwiceSkipsSecondRun(t *testing.T) {
	srv := paperServer(t)
	dir := t.TempDir()
	args := []string{"convert", srv.URL + "/html/2301.00001", "--download-dir", dir}

	stdout1, stderr1, err := runCommand(t, args...)
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	if strings.Contains(stderr1, "skipping") {
		t.Errorf("first run emitted a skip warning:\n%s", stderr1)
	}

	mdPath := filepath.Join(dir, "2301.00001", "README.md")
	before, err := os.ReadFile(mdPath)
	if err != nil {
		t.Fatal(err)
	}

	stdout2, stderr2, err := runCommand(t, args...)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if !strings.Contains(stderr2, "skipping") {
		t.Errorf("second run missing the skip warning:\n%s", stderr2)
	}
	if stdout2 != stdout1 {
		t.Errorf("reported path changed between runs: %q vs %q", stdout1, stdout2)
	}

	after, err := os.ReadFile(mdPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(before) != string(after) {
		t.Error("second run rewrote the markdown output")
	}
}

func TestConvertSkipsNonEmptyOutputDir(t *testing.T) {
	srv := paperServer(t)
	dir := t.TempDir()

	paperDir := filepath.Join(dir, "2301.00001")
	if err := os.MkdirAll(paperDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(paperDir, "junk.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	stdout, stderr, err := runCommand(t, "convert", srv.URL+"/html/2301.00001", "--download-dir", dir)
	if err != nil {
		t.Fatalf("skip run failed: %v", err)
	}

	if !strings.Contains(stderr, "skipping") {
		t.Errorf("stderr = %q, want a skip warning", stderr)
	}
	if !strings.Contains(stdout, filepath.Join(paperDir, "README.md")) {
		t.Errorf("stdout = %q, want the reported output path", stdout)
	}
	if _, statErr := os.Stat(filepath.Join(paperDir, "README.md")); !os.IsNotExist(statErr) {
		t.Error("skip run wrote the markdown file")
	}
}
