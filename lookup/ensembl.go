package lookup

import (
	"context"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"

	"github.com/Jeffail/gabs"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/guregu/null.v3"
)

// Ensembl REST hosts per assembly.
var DefaultEnsemblURLs = map[Build]string{
	GRCh37: "https://grch37.rest.ensembl.org",
	GRCh38: "https://rest.ensembl.org",
}

// EnsemblClient queries the Ensembl variation endpoint.
type EnsemblClient struct {
	HTTPClient *http.Client

	// URLs maps each build to the base URL of its REST server. Builds missing
	// from the map fall back to DefaultEnsemblURLs.
	URLs map[Build]string
}

// NewEnsemblClient returns a client using httpClient, or http.DefaultClient if
// nil. Per-request deadlines come from the context passed to Fetch.
func NewEnsemblClient(httpClient *http.Client) *EnsemblClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &EnsemblClient{
		HTTPClient: httpClient,
		URLs:       make(map[Build]string),
	}
}

type ensemblMapping struct {
	AlleleString  string `mapstructure:"allele_string"`
	SeqRegionName string `mapstructure:"seq_region_name"`
	Location      string `mapstructure:"location"`
}

func (c *EnsemblClient) baseURL(build Build) (string, error) {
	if u, ok := c.URLs[build]; ok && u != "" {
		return strings.TrimSuffix(u, "/"), nil
	}
	if u, ok := DefaultEnsemblURLs[build]; ok {
		return u, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnsupportedBuild, build)
}

// VariationURL is the REST URL that describes rsID on the given build.
func (c *EnsemblClient) VariationURL(rsID string, build Build) (string, error) {
	base, err := c.baseURL(build)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s/variation/human/%s?content-type=application/json", base, url.PathEscape(rsID)), nil
}

// Fetch implements Fetcher.
func (c *EnsemblClient) Fetch(ctx context.Context, rsID string, build Build) (QueryResult, error) {
	u, err := c.VariationURL(rsID, build)
	if err != nil {
		return QueryResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return QueryResult{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return QueryResult{}, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return QueryResult{}, fmt.Errorf("%w: reading response for %s: %v", ErrTransport, rsID, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if parsed, err := gabs.ParseJSON(body); err == nil {
			if msg, ok := parsed.Path("error").Data().(string); ok && strings.Contains(msg, "not found for human") {
				return QueryResult{}, fmt.Errorf("%w: %s", ErrNotFound, msg)
			}
		}
		return QueryResult{}, fmt.Errorf("%w: request for %s failed with code %d", ErrTransport, rsID, resp.StatusCode)
	}

	return parseVariation(rsID, body)
}

func parseVariation(rsID string, body []byte) (QueryResult, error) {
	parsed, err := gabs.ParseJSON(body)
	if err != nil {
		return QueryResult{}, fmt.Errorf("%w: unparseable response for %s: %v", ErrTransport, rsID, err)
	}

	// mappings is empty when the variant does not map to the genome
	mappings, ok := parsed.Path("mappings").Data().([]interface{})
	if !ok || len(mappings) == 0 {
		return QueryResult{}, fmt.Errorf("%w: %s does not map to genome", ErrNotFound, rsID)
	}

	var mapping ensemblMapping
	if err := mapstructure.Decode(mappings[0], &mapping); err != nil {
		return QueryResult{}, fmt.Errorf("%w: unexpected mapping for %s: %v", ErrTransport, rsID, err)
	}

	if mapping.AlleleString == "" {
		return QueryResult{}, fmt.Errorf("%w: %s has no allele string", ErrNotFound, rsID)
	}

	parts := strings.Split(mapping.AlleleString, "/")
	out := QueryResult{
		Ref: parts[0],
	}
	if len(parts) > 1 {
		out.Alt = parts[1:]
	}

	if minor, ok := parsed.Path("minor_allele").Data().(string); ok && minor != "" {
		out.RefIsMinor = null.BoolFrom(strings.EqualFold(out.Ref, minor))
	}

	return out, nil
}
