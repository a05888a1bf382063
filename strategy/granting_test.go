// api/strategy/granting_test.go
package strategy_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	aegis_errors "github.com/dev-mohitbeniwal/aegis/api/errors"
	logger "github.com/dev-mohitbeniwal/aegis/api/logging"
	"github.com/dev-mohitbeniwal/aegis/api/model"
	"github.com/dev-mohitbeniwal/aegis/api/strategy"
)

func TestMain(m *testing.M) {
	logger.InitLogger("../logging")
	code := m.Run()
	logger.Sync()
	os.Exit(code)
}

var (
	bob    = model.PrincipalSid("bob")
	carol  = model.PrincipalSid("carol")
	admins = model.AuthoritySid("ROLE_ADMINISTRATOR")
)

type auditRecord struct {
	granted bool
	aceID   string
}

// recordingAuditLogger captures every outcome the strategy reports.
type recordingAuditLogger struct {
	records []auditRecord
}

func (l *recordingAuditLogger) LogIfNeeded(_ context.Context, granted bool, ace *model.AccessControlEntry) {
	l.records = append(l.records, auditRecord{granted: granted, aceID: ace.ID})
}

func aclWithEntries(id int64, objectID string, entries ...model.AccessControlEntry) *model.Acl {
	acl := model.NewAcl(
		model.PrimaryKey(id),
		model.NewObjectIdentity("document", objectID),
		model.PrincipalSid("alice"),
		nil, nil,
	)
	acl.Entries = entries
	return acl
}

func grantAce(id string, sid model.Sid, mask model.Permission) model.AccessControlEntry {
	return model.AccessControlEntry{ID: id, Sid: sid, Mask: mask, Granting: true}
}

func denyAce(id string, sid model.Sid, mask model.Permission) model.AccessControlEntry {
	return model.AccessControlEntry{ID: id, Sid: sid, Mask: mask, Granting: false}
}

func TestIsGrantedExactMatch(t *testing.T) {
	recorder := &recordingAuditLogger{}
	s := strategy.NewDefaultGrantingStrategy(recorder)
	acl := aclWithEntries(1, "doc-1", grantAce("ace-1", bob, model.PermissionRead))

	granted, err := s.IsGranted(context.Background(), acl, []model.Permission{model.PermissionRead}, []model.Sid{bob}, false)
	require.NoError(t, err)
	assert.True(t, granted)
	assert.Equal(t, []auditRecord{{granted: true, aceID: "ace-1"}}, recorder.records)
}

func TestMasksCompareForExactEquality(t *testing.T) {
	s := strategy.NewDefaultGrantingStrategy(nil)
	readWrite := model.CombinePermissions(model.PermissionRead, model.PermissionWrite)
	acl := aclWithEntries(1, "doc-1", grantAce("ace-1", bob, readWrite))

	// A cumulative mask does not satisfy a request for one of its bits.
	granted, err := s.IsGranted(context.Background(), acl, []model.Permission{model.PermissionRead}, []model.Sid{bob}, false)
	assert.ErrorIs(t, err, aegis_errors.ErrUnresolvablePermission)
	assert.False(t, granted)

	granted, err = s.IsGranted(context.Background(), acl, []model.Permission{readWrite}, []model.Sid{bob}, false)
	require.NoError(t, err)
	assert.True(t, granted)
}

func TestFirstMatchingEntryDecides(t *testing.T) {
	recorder := &recordingAuditLogger{}
	s := strategy.NewDefaultGrantingStrategy(recorder)
	acl := aclWithEntries(1, "doc-1",
		denyAce("ace-deny", bob, model.PermissionRead),
		grantAce("ace-grant", bob, model.PermissionRead),
	)

	granted, err := s.IsGranted(context.Background(), acl, []model.Permission{model.PermissionRead}, []model.Sid{bob}, false)
	require.NoError(t, err)
	assert.False(t, granted)
	assert.Equal(t, []auditRecord{{granted: false, aceID: "ace-deny"}}, recorder.records)
}

func TestDenyStopsSidScanForThatPermission(t *testing.T) {
	s := strategy.NewDefaultGrantingStrategy(nil)
	acl := aclWithEntries(1, "doc-1",
		denyAce("ace-deny", bob, model.PermissionRead),
		grantAce("ace-grant", carol, model.PermissionRead),
	)

	// The rejection for bob settles the read permission; carol's grant is
	// never consulted for it.
	granted, err := s.IsGranted(context.Background(), acl, []model.Permission{model.PermissionRead}, []model.Sid{bob, carol}, false)
	require.NoError(t, err)
	assert.False(t, granted)
}

func TestLaterPermissionStillGrants(t *testing.T) {
	recorder := &recordingAuditLogger{}
	s := strategy.NewDefaultGrantingStrategy(recorder)
	acl := aclWithEntries(1, "doc-1",
		denyAce("ace-deny", bob, model.PermissionRead),
		grantAce("ace-grant", bob, model.PermissionWrite),
	)

	granted, err := s.IsGranted(context.Background(), acl,
		[]model.Permission{model.PermissionRead, model.PermissionWrite},
		[]model.Sid{bob}, false)
	require.NoError(t, err)
	assert.True(t, granted)
	assert.Equal(t, []auditRecord{{granted: true, aceID: "ace-grant"}}, recorder.records)
}

func TestInheritedEvaluationFallsBackToParent(t *testing.T) {
	s := strategy.NewDefaultGrantingStrategy(nil)

	parent := aclWithEntries(2, "parent", grantAce("ace-parent", bob, model.PermissionRead))
	child := aclWithEntries(1, "child")
	child.Parent = parent
	child.InheritParent = true

	granted, err := s.IsGranted(context.Background(), child, []model.Permission{model.PermissionRead}, []model.Sid{bob}, false)
	require.NoError(t, err)
	assert.True(t, granted)
}

func TestNoFallbackWithoutInheritance(t *testing.T) {
	s := strategy.NewDefaultGrantingStrategy(nil)

	parent := aclWithEntries(2, "parent", grantAce("ace-parent", bob, model.PermissionRead))
	child := aclWithEntries(1, "child")
	child.Parent = parent
	child.InheritParent = false

	granted, err := s.IsGranted(context.Background(), child, []model.Permission{model.PermissionRead}, []model.Sid{bob}, false)
	assert.ErrorIs(t, err, aegis_errors.ErrUnresolvablePermission)
	assert.False(t, granted)
}

func TestLocalDenyBeatsInheritedGrant(t *testing.T) {
	s := strategy.NewDefaultGrantingStrategy(nil)

	parent := aclWithEntries(2, "parent", grantAce("ace-parent", bob, model.PermissionRead))
	child := aclWithEntries(1, "child", denyAce("ace-deny", bob, model.PermissionRead))
	child.Parent = parent
	child.InheritParent = true

	granted, err := s.IsGranted(context.Background(), child, []model.Permission{model.PermissionRead}, []model.Sid{bob}, false)
	require.NoError(t, err)
	assert.False(t, granted)
}

func TestAdministrativeModeSuppressesAudit(t *testing.T) {
	recorder := &recordingAuditLogger{}
	s := strategy.NewDefaultGrantingStrategy(recorder)
	acl := aclWithEntries(1, "doc-1",
		grantAce("ace-grant", bob, model.PermissionRead),
		denyAce("ace-deny", bob, model.PermissionWrite),
	)

	granted, err := s.IsGranted(context.Background(), acl, []model.Permission{model.PermissionRead}, []model.Sid{bob}, true)
	require.NoError(t, err)
	assert.True(t, granted)

	granted, err = s.IsGranted(context.Background(), acl, []model.Permission{model.PermissionWrite}, []model.Sid{bob}, true)
	require.NoError(t, err)
	assert.False(t, granted)

	assert.Empty(t, recorder.records)
}

func TestParentEvaluationIsNeverAdministrative(t *testing.T) {
	recorder := &recordingAuditLogger{}
	s := strategy.NewDefaultGrantingStrategy(recorder)

	parent := aclWithEntries(2, "parent", grantAce("ace-parent", bob, model.PermissionRead))
	child := aclWithEntries(1, "child")
	child.Parent = parent
	child.InheritParent = true

	granted, err := s.IsGranted(context.Background(), child, []model.Permission{model.PermissionRead}, []model.Sid{bob}, true)
	require.NoError(t, err)
	assert.True(t, granted)
	assert.Equal(t, []auditRecord{{granted: true, aceID: "ace-parent"}}, recorder.records)
}
