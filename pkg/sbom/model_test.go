package sbom

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDocument = `{
	"bomFormat": "CycloneDX",
	"specVersion": "1.4",
	"components": [
		{
			"type": "library",
			"name": "flask",
			"version": "2.0.1",
			"licenses": [{"license": {"id": "BSD-3-Clause"}}]
		},
		{
			"type": "library",
			"name": "click"
		}
	]
}`

func TestDocumentFrom(t *testing.T) {
	t.Run("Should decode the consumed subset", func(t *testing.T) {
		doc, err := DocumentFrom(strings.NewReader(sampleDocument))
		require.NoError(t, err)
		assert.Equal(t, "CycloneDX", doc.BOMFormat)
		assert.Equal(t, "1.4", doc.SpecVersion)
		require.Len(t, doc.Components, 2)
		assert.Equal(t, "flask", doc.Components[0].Name)
		assert.Equal(t, "BSD-3-Clause", doc.Components[0].LicenseName())
	})

	t.Run("Should return error when document is not valid JSON", func(t *testing.T) {
		_, err := DocumentFrom(strings.NewReader("not json"))
		assert.Error(t, err)
	})

	t.Run("Should normalize missing components to an empty slice", func(t *testing.T) {
		doc, err := DocumentFrom(strings.NewReader(`{"bomFormat": "CycloneDX"}`))
		require.NoError(t, err)
		assert.NotNil(t, doc.Components)
		assert.Empty(t, doc.Components)
	})
}

func TestComponentLicenseName(t *testing.T) {
	testCases := []struct {
		name         string
		component    Component
		expectedName string
	}{
		{
			name: "Should prefer the license name",
			component: Component{
				Licenses: []LicenseChoice{
					{License: License{Name: "Apache License 2.0", ID: "Apache-2.0"}},
				},
			},
			expectedName: "Apache License 2.0",
		},
		{
			name: "Should fall back to the SPDX id",
			component: Component{
				Licenses: []LicenseChoice{
					{License: License{ID: "MIT"}},
				},
			},
			expectedName: "MIT",
		},
		{
			name:         "Should report Unknown without license data",
			component:    Component{Name: "click"},
			expectedName: "Unknown",
		},
		{
			name: "Should report Unknown for an empty license entry",
			component: Component{
				Licenses: []LicenseChoice{{}},
			},
			expectedName: "Unknown",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expectedName, tc.component.LicenseName())
		})
	}
}

func TestComponentVersionOrUnknown(t *testing.T) {
	assert.Equal(t, "2.0.1", Component{Version: "2.0.1"}.VersionOrUnknown())
	assert.Equal(t, "Unknown", Component{}.VersionOrUnknown())
	assert.Equal(t, "Unknown", Component{}.NameOrUnknown())
}
