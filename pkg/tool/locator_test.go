package tool

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/securelayer/sbom-analyzer/pkg/etc"
	"github.com/securelayer/sbom-analyzer/pkg/ext"
)

var testConfig = etc.Analyzer{
	GitExecutable:  "git",
	SBOMExecutable: "syft",
	VulnExecutable: "osv-scanner",
}

func TestLocatorLocate(t *testing.T) {
	t.Run("Should resolve all required tools", func(t *testing.T) {
		ambassador := ext.NewMockAmbassador()
		ambassador.On("LookPath", "git").Return("/usr/bin/git", nil)
		ambassador.On("LookPath", "syft").Return("/usr/local/bin/syft", nil)
		ambassador.On("LookPath", "osv-scanner").Return("/usr/local/bin/osv-scanner", nil)

		paths, err := NewLocator(testConfig, ambassador).Locate()
		require.NoError(t, err)
		assert.Equal(t, Paths{
			Git:  "/usr/bin/git",
			SBOM: "/usr/local/bin/syft",
			Vuln: "/usr/local/bin/osv-scanner",
		}, paths)

		ambassador.AssertExpectations(t)
	})

	t.Run("Should enumerate every missing tool", func(t *testing.T) {
		ambassador := ext.NewMockAmbassador()
		ambassador.On("LookPath", "git").Return("/usr/bin/git", nil)
		ambassador.On("LookPath", "syft").Return("", errors.New("executable file not found in $PATH"))
		ambassador.On("LookPath", "osv-scanner").Return("", errors.New("executable file not found in $PATH"))

		paths, err := NewLocator(testConfig, ambassador).Locate()
		assert.Nil(t, paths)

		var missingErr *MissingToolsError
		require.ErrorAs(t, err, &missingErr)
		assert.Equal(t, []string{"syft", "osv-scanner"}, missingErr.Missing)
		assert.Contains(t, err.Error(), "syft")
		assert.Contains(t, err.Error(), "osv-scanner")
		assert.NotContains(t, err.Error(), "- git:")
	})

	t.Run("Should resolve configured executable overrides", func(t *testing.T) {
		config := etc.Analyzer{
			GitExecutable:  "git",
			SBOMExecutable: "syft-v2",
			VulnExecutable: "osv-scanner",
		}

		ambassador := ext.NewMockAmbassador()
		ambassador.On("LookPath", "git").Return("/usr/bin/git", nil)
		ambassador.On("LookPath", "syft-v2").Return("/opt/syft-v2", nil)
		ambassador.On("LookPath", "osv-scanner").Return("/usr/local/bin/osv-scanner", nil)

		paths, err := NewLocator(config, ambassador).Locate()
		require.NoError(t, err)
		assert.Equal(t, "/opt/syft-v2", paths[SBOM])
	})
}
