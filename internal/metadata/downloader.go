package metadata

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/go-version"
)

const nugetIndexAddress = "https://api.nuget.org/v3/index.json"
const metadataPackage = "microsoft.windows.sdk.win32metadata"

// Fetch downloads the newest Win32 metadata package from NuGet and
// writes the contained .winmd file to the given path.
func Fetch(outputPath string) error {
	baseAddress, err := packageBaseAddress()
	if err != nil {
		return err
	}

	latest, err := latestVersion(baseAddress)
	if err != nil {
		return err
	}

	nupkg, err := httpGet(fmt.Sprintf("%s%s/%s/%s.%s.nupkg", baseAddress, metadataPackage, latest, metadataPackage, latest))
	if err != nil {
		return fmt.Errorf("downloading metadata package: %w", err)
	}

	reader := bytes.NewReader(nupkg)
	archive, err := zip.NewReader(reader, int64(reader.Len()))
	if err != nil {
		return fmt.Errorf("opening metadata package: %w", err)
	}
	for _, file := range archive.File {
		if filepath.Ext(file.Name) != ".winmd" {
			continue
		}
		content, err := file.Open()
		if err != nil {
			return fmt.Errorf("extracting %s: %w", file.Name, err)
		}
		data, err := io.ReadAll(content)
		content.Close()
		if err != nil {
			return fmt.Errorf("extracting %s: %w", file.Name, err)
		}
		return os.WriteFile(outputPath, data, 0o644)
	}

	return fmt.Errorf("metadata package %s contains no .winmd file", latest)
}

func latestVersion(baseAddress string) (string, error) {
	data, err := httpGet(fmt.Sprintf("%s%s/index.json", baseAddress, metadataPackage))
	if err != nil {
		return "", fmt.Errorf("listing metadata versions: %w", err)
	}
	var listing struct {
		Versions []string `json:"versions"`
	}
	if err := json.Unmarshal(data, &listing); err != nil {
		return "", fmt.Errorf("listing metadata versions: %w", err)
	}
	if len(listing.Versions) == 0 {
		return "", fmt.Errorf("no published metadata versions")
	}

	ordered := make([]*version.Version, 0, len(listing.Versions))
	for _, raw := range listing.Versions {
		v, err := version.NewVersion(raw)
		if err != nil {
			return "", fmt.Errorf("bad metadata version %q: %w", raw, err)
		}
		ordered = append(ordered, v)
	}
	sort.Sort(version.Collection(ordered))
	return ordered[len(ordered)-1].Original(), nil
}

func packageBaseAddress() (string, error) {
	data, err := httpGet(nugetIndexAddress)
	if err != nil {
		return "", fmt.Errorf("reading NuGet index: %w", err)
	}
	var index struct {
		Resources []struct {
			ID   string `json:"@id"`
			Type string `json:"@type"`
		} `json:"resources"`
	}
	if err := json.Unmarshal(data, &index); err != nil {
		return "", fmt.Errorf("reading NuGet index: %w", err)
	}
	for _, resource := range index.Resources {
		if strings.Contains(resource.Type, "PackageBaseAddress") {
			return resource.ID, nil
		}
	}
	return "", fmt.Errorf("NuGet index lists no package base address")
}

func httpGet(url string) ([]byte, error) {
	response, err := http.Get(url)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: %s", url, response.Status)
	}
	return io.ReadAll(response.Body)
}
