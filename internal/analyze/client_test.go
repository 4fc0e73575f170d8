package analyze

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var testUpload = Upload{
	Name: "patient.vcf",
	Data: []byte("##fileformat=VCFv4.2\n#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n1\t1\trs1\tA\tG\t50\tPASS\t.\n"),
}

// newTestClient points a Client at a fake backend and guarantees cleanup of
// its idle connections so goleak stays quiet.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	c := &Client{baseURL: srv.URL, httpc: srv.Client(), log: zap.NewNop()}
	t.Cleanup(func() {
		c.httpc.CloseIdleConnections()
		srv.Close()
	})
	return c
}

func TestSingleDrugRoutesToSingleEndpoint(t *testing.T) {
	var gotPath, gotDrug, gotFile string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotDrug = r.FormValue("drug")
		f, hdr, err := r.FormFile("vcf")
		require.NoError(t, err)
		f.Close()
		gotFile = hdr.Filename
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		w.Write([]byte(`{"patient_id":"PT-1","drug":"CODEINE"}`))
	})

	rep, err := c.Run(context.Background(), testUpload, []string{"CODEINE"})
	require.NoError(t, err)
	assert.Equal(t, "/analyze", gotPath)
	assert.Equal(t, "CODEINE", gotDrug)
	assert.Equal(t, "patient.vcf", gotFile)
	require.NotNil(t, rep.Single)
	assert.Nil(t, rep.Batch)
	assert.Equal(t, "PT-1", rep.Single.PatientID)
}

func TestMultipleDrugsRouteToBatchEndpoint(t *testing.T) {
	var gotPath, gotDrugs string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotDrugs = r.FormValue("drugs")
		w.Write([]byte(`{"patient_id":"PT-2","results":{"CODEINE":{"risk_label":"Safe"}}}`))
	})

	rep, err := c.Run(context.Background(), testUpload, []string{"CODEINE", "WARFARIN"})
	require.NoError(t, err)
	assert.Equal(t, "/analyze/batch", gotPath)
	assert.Equal(t, "CODEINE,WARFARIN", gotDrugs)
	require.NotNil(t, rep.Batch)
	assert.Nil(t, rep.Single)
}

func TestErrorDetailIsExtracted(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail":"Invalid file type"}`))
	})

	_, err := c.Run(context.Background(), testUpload, []string{"CODEINE"})
	require.Error(t, err)
	assert.Equal(t, "Invalid file type", err.Error())
}

func TestStatusWithoutDetailSynthesizesMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("not json"))
	})

	_, err := c.Run(context.Background(), testUpload, []string{"CODEINE"})
	require.Error(t, err)
	assert.Equal(t, "request failed (502)", err.Error())
}

func TestUnparsableSuccessBodyIsAnError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>surprise</html>"))
	})

	_, err := c.Run(context.Background(), testUpload, []string{"CODEINE"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse analysis response")
}

func TestNetworkFailureSurfacesImmediately(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	c := &Client{baseURL: srv.URL, httpc: srv.Client(), log: zap.NewNop()}
	c.httpc.CloseIdleConnections()
	srv.Close() // connection refused from here on

	_, err := c.Run(context.Background(), testUpload, []string{"CODEINE"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "analysis request failed")
}

func TestRunRequiresDrugs(t *testing.T) {
	c := NewClient(nil)
	_, err := c.Run(context.Background(), testUpload, nil)
	assert.ErrorIs(t, err, ErrNoDrugs)
}
