package authz

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"testing"

	"doctracker/internal/domain"
	"doctracker/internal/domain/models/directory"
	"doctracker/internal/domain/models/docstore"
)

// ---- in-memory fakes ----

type fakeUserRepo struct {
	users map[string]*directory.User
	err   error
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*directory.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) ListByCompany(context.Context, string) ([]directory.User, error) {
	return nil, nil
}
func (f *fakeUserRepo) Create(context.Context, *directory.User) error { return nil }
func (f *fakeUserRepo) AddToDepartment(context.Context, string, string) error {
	return nil
}
func (f *fakeUserRepo) RemoveFromDepartment(context.Context, string, string) error {
	return nil
}

type fakeFolderRepo struct {
	folders map[string]*docstore.Folder
	err     error
	// errAfter fails GetByID once the given number of calls succeeded,
	// used to break resolution partway through a walk.
	errAfter int
	calls    int
}

func (f *fakeFolderRepo) GetByID(_ context.Context, id string) (*docstore.Folder, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.calls++
	if f.errAfter > 0 && f.calls > f.errAfter {
		return nil, errors.New("storage unavailable")
	}
	folder, ok := f.folders[id]
	if !ok {
		return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	cp := *folder
	return &cp, nil
}

func (f *fakeFolderRepo) Create(context.Context, *docstore.Folder) error { return nil }
func (f *fakeFolderRepo) Update(context.Context, *docstore.Folder) error { return nil }
func (f *fakeFolderRepo) Delete(context.Context, string) (*docstore.Folder, error) {
	return nil, nil
}
func (f *fakeFolderRepo) ListChildren(context.Context, *string, string) ([]docstore.Folder, error) {
	return nil, nil
}

func (f *fakeFolderRepo) UpdatePermissions(_ context.Context, id string, entries []docstore.PermissionEntry) (*docstore.Folder, error) {
	folder, ok := f.folders[id]
	if !ok {
		return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	folder.Permissions = entries
	cp := *folder
	return &cp, nil
}

type fakeFileRepo struct {
	files map[string]*docstore.File
}

func (f *fakeFileRepo) GetByID(_ context.Context, id string) (*docstore.File, error) {
	file, ok := f.files[id]
	if !ok {
		return nil, fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
	}
	cp := *file
	return &cp, nil
}

func (f *fakeFileRepo) Create(context.Context, *docstore.File) error { return nil }
func (f *fakeFileRepo) Update(context.Context, *docstore.File) error { return nil }
func (f *fakeFileRepo) Delete(context.Context, string) error         { return nil }

type linkKey struct{ fileID, folderID string }

type fakeLinkRepo struct {
	links map[linkKey]*docstore.ResourceLink
	err   error
}

func (f *fakeLinkRepo) Get(_ context.Context, fileID, folderID string) (*docstore.ResourceLink, error) {
	if f.err != nil {
		return nil, f.err
	}
	link, ok := f.links[linkKey{fileID, folderID}]
	if !ok {
		return nil, fmt.Errorf("link (%s, %s): %w", fileID, folderID, domain.ErrNotFound)
	}
	cp := *link
	return &cp, nil
}

func (f *fakeLinkRepo) ListByFile(_ context.Context, fileID string) ([]docstore.ResourceLink, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []docstore.ResourceLink
	for k, link := range f.links {
		if k.fileID == fileID {
			out = append(out, *link)
		}
	}
	return out, nil
}

func (f *fakeLinkRepo) ListByFolder(_ context.Context, folderID string) ([]docstore.ResourceLink, error) {
	var out []docstore.ResourceLink
	for k, link := range f.links {
		if k.folderID == folderID {
			out = append(out, *link)
		}
	}
	return out, nil
}

func (f *fakeLinkRepo) Create(context.Context, *docstore.ResourceLink) error { return nil }

func (f *fakeLinkRepo) UpdatePermissions(_ context.Context, fileID, folderID string, entries []docstore.PermissionEntry) (*docstore.ResourceLink, error) {
	link, ok := f.links[linkKey{fileID, folderID}]
	if !ok {
		return nil, fmt.Errorf("link (%s, %s): %w", fileID, folderID, domain.ErrNotFound)
	}
	link.Permissions = entries
	cp := *link
	return &cp, nil
}

func (f *fakeLinkRepo) Delete(context.Context, string, string) error { return nil }

type recordingAuditor struct {
	changes []PermissionChange
}

func (r *recordingAuditor) PermissionsChanged(_ context.Context, change PermissionChange) {
	r.changes = append(r.changes, change)
}

// ---- fixtures ----

const (
	companyA = "company-a"
	deptEng  = "dept-eng"
)

func strPtr(s string) *string { return &s }

func entry(userID string, kinds ...docstore.PermissionKind) docstore.PermissionEntry {
	return docstore.PermissionEntry{UserID: userID, Permissions: kinds}
}

func companyFolder(id string, parentID *string, perms ...docstore.PermissionEntry) *docstore.Folder {
	var p []docstore.PermissionEntry
	if len(perms) > 0 {
		p = perms
	}
	return &docstore.Folder{
		ID:             id,
		CompanyID:      companyA,
		ScopeLevel:     docstore.ScopeCompany,
		ParentFolderID: parentID,
		Name:           id,
		Permissions:    p,
	}
}

func newTestResolver(users *fakeUserRepo, folders *fakeFolderRepo, files *fakeFileRepo, links *fakeLinkRepo) (Resolver, *recordingAuditor) {
	if users == nil {
		users = &fakeUserRepo{users: map[string]*directory.User{}}
	}
	if folders == nil {
		folders = &fakeFolderRepo{folders: map[string]*docstore.Folder{}}
	}
	if files == nil {
		files = &fakeFileRepo{files: map[string]*docstore.File{}}
	}
	if links == nil {
		links = &fakeLinkRepo{links: map[linkKey]*docstore.ResourceLink{}}
	}
	auditor := &recordingAuditor{}
	logger := slog.New(slog.DiscardHandler)
	return NewResolver(users, folders, files, links, auditor, logger), auditor
}

// ---- resolution ----

func TestResolveFolderPermissions_OwnOverridesInherited(t *testing.T) {
	folders := &fakeFolderRepo{folders: map[string]*docstore.Folder{
		"root": companyFolder("root", nil,
			entry("alice", docstore.PermissionRead, docstore.PermissionWrite),
			entry("bob", docstore.PermissionRead),
		),
		"child": companyFolder("child", strPtr("root"),
			entry("alice", docstore.PermissionRead), // narrows alice down
		),
	}}
	r, _ := newTestResolver(nil, folders, nil, nil)

	view, err := r.ResolveFolderPermissions(context.Background(), "child")
	if err != nil {
		t.Fatalf("ResolveFolderPermissions: %v", err)
	}

	want := []docstore.PermissionEntry{
		entry("alice", docstore.PermissionRead),
		entry("bob", docstore.PermissionRead),
	}
	if !reflect.DeepEqual(view.ExplicitPermissions, want) {
		t.Errorf("explicit permissions = %+v, want %+v", view.ExplicitPermissions, want)
	}

	wantInherited := []docstore.PermissionEntry{
		entry("alice", docstore.PermissionRead, docstore.PermissionWrite),
		entry("bob", docstore.PermissionRead),
	}
	if !reflect.DeepEqual(view.InheritedPermissions, wantInherited) {
		t.Errorf("inherited permissions = %+v, want %+v", view.InheritedPermissions, wantInherited)
	}
}

func TestResolveFolderPermissions_MultiLevelNearerWins(t *testing.T) {
	// root grants carol manage, mid replaces it with read, leaf adds dave.
	folders := &fakeFolderRepo{folders: map[string]*docstore.Folder{
		"root": companyFolder("root", nil, entry("carol", docstore.PermissionManage)),
		"mid":  companyFolder("mid", strPtr("root"), entry("carol", docstore.PermissionRead)),
		"leaf": companyFolder("leaf", strPtr("mid"), entry("dave", docstore.PermissionWrite)),
	}}
	r, _ := newTestResolver(nil, folders, nil, nil)

	view, err := r.ResolveFolderPermissions(context.Background(), "leaf")
	if err != nil {
		t.Fatalf("ResolveFolderPermissions: %v", err)
	}

	want := []docstore.PermissionEntry{
		entry("carol", docstore.PermissionRead),
		entry("dave", docstore.PermissionWrite),
	}
	if !reflect.DeepEqual(view.ExplicitPermissions, want) {
		t.Errorf("explicit permissions = %+v, want %+v", view.ExplicitPermissions, want)
	}
}

func TestResolveFolderPermissions_CycleTerminates(t *testing.T) {
	// a -> b -> a: the walk must stop instead of looping.
	folders := &fakeFolderRepo{folders: map[string]*docstore.Folder{
		"a": companyFolder("a", strPtr("b"), entry("alice", docstore.PermissionRead)),
		"b": companyFolder("b", strPtr("a"), entry("bob", docstore.PermissionRead)),
	}}
	r, _ := newTestResolver(nil, folders, nil, nil)

	view, err := r.ResolveFolderPermissions(context.Background(), "a")
	if err != nil {
		t.Fatalf("ResolveFolderPermissions: %v", err)
	}

	want := []docstore.PermissionEntry{
		entry("bob", docstore.PermissionRead),
		entry("alice", docstore.PermissionRead),
	}
	if !reflect.DeepEqual(view.ExplicitPermissions, want) {
		t.Errorf("explicit permissions = %+v, want %+v", view.ExplicitPermissions, want)
	}
}

func TestResolveFolderPermissions_SelfParentCycle(t *testing.T) {
	folders := &fakeFolderRepo{folders: map[string]*docstore.Folder{
		"loop": companyFolder("loop", strPtr("loop"), entry("alice", docstore.PermissionRead)),
	}}
	r, _ := newTestResolver(nil, folders, nil, nil)

	view, err := r.ResolveFolderPermissions(context.Background(), "loop")
	if err != nil {
		t.Fatalf("ResolveFolderPermissions: %v", err)
	}
	if len(view.InheritedPermissions) != 0 {
		t.Errorf("inherited = %+v, want empty", view.InheritedPermissions)
	}
}

func TestResolveFolderPermissions_DanglingParentStopsInheritance(t *testing.T) {
	folders := &fakeFolderRepo{folders: map[string]*docstore.Folder{
		"orphan": companyFolder("orphan", strPtr("gone"), entry("alice", docstore.PermissionRead)),
	}}
	r, _ := newTestResolver(nil, folders, nil, nil)

	view, err := r.ResolveFolderPermissions(context.Background(), "orphan")
	if err != nil {
		t.Fatalf("ResolveFolderPermissions: %v", err)
	}
	if len(view.InheritedPermissions) != 0 {
		t.Errorf("inherited = %+v, want empty", view.InheritedPermissions)
	}
	want := []docstore.PermissionEntry{entry("alice", docstore.PermissionRead)}
	if !reflect.DeepEqual(view.ExplicitPermissions, want) {
		t.Errorf("explicit permissions = %+v, want %+v", view.ExplicitPermissions, want)
	}
}

func TestResolveFolderPermissions_NotFound(t *testing.T) {
	r, _ := newTestResolver(nil, nil, nil, nil)
	if _, err := r.ResolveFolderPermissions(context.Background(), "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestResolveFolderPermissions_Idempotent(t *testing.T) {
	folders := &fakeFolderRepo{folders: map[string]*docstore.Folder{
		"root":  companyFolder("root", nil, entry("alice", docstore.PermissionManage)),
		"child": companyFolder("child", strPtr("root"), entry("bob", docstore.PermissionRead)),
	}}
	r, _ := newTestResolver(nil, folders, nil, nil)

	first, err := r.ResolveFolderPermissions(context.Background(), "child")
	if err != nil {
		t.Fatalf("first resolve: %v", err)
	}
	second, err := r.ResolveFolderPermissions(context.Background(), "child")
	if err != nil {
		t.Fatalf("second resolve: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated resolution diverged:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestResolveFilePermissions_LinkIsolation(t *testing.T) {
	files := &fakeFileRepo{files: map[string]*docstore.File{
		"doc": {ID: "doc", CompanyID: companyA, ScopeLevel: docstore.ScopeCompany, Name: "doc"},
	}}
	links := &fakeLinkRepo{links: map[linkKey]*docstore.ResourceLink{
		{"doc", "f1"}: {FileID: "doc", FolderID: "f1", Permissions: []docstore.PermissionEntry{entry("alice", docstore.PermissionWrite)}},
		{"doc", "f2"}: {FileID: "doc", FolderID: "f2"},
	}}
	r, _ := newTestResolver(nil, nil, files, links)

	view, err := r.ResolveFilePermissions(context.Background(), "doc", strPtr("f1"))
	if err != nil {
		t.Fatalf("ResolveFilePermissions: %v", err)
	}
	want := []docstore.PermissionEntry{entry("alice", docstore.PermissionWrite)}
	if !reflect.DeepEqual(view.ExplicitPermissions, want) {
		t.Errorf("f1 explicit = %+v, want %+v", view.ExplicitPermissions, want)
	}

	// Same file through the other link carries none of f1's grants.
	view2, err := r.ResolveFilePermissions(context.Background(), "doc", strPtr("f2"))
	if err != nil {
		t.Fatalf("ResolveFilePermissions: %v", err)
	}
	if view2.ExplicitPermissions != nil {
		t.Errorf("f2 explicit = %+v, want nil", view2.ExplicitPermissions)
	}
}

func TestResolveFilePermissions_UnlinkedFolderIsNotAnError(t *testing.T) {
	files := &fakeFileRepo{files: map[string]*docstore.File{
		"doc": {ID: "doc", CompanyID: companyA, ScopeLevel: docstore.ScopeCompany, Name: "doc"},
	}}
	r, _ := newTestResolver(nil, nil, files, nil)

	view, err := r.ResolveFilePermissions(context.Background(), "doc", strPtr("unrelated"))
	if err != nil {
		t.Fatalf("ResolveFilePermissions: %v", err)
	}
	if view.ExplicitPermissions != nil {
		t.Errorf("explicit = %+v, want nil", view.ExplicitPermissions)
	}
}

func TestResolveFilePermissions_FileNotFound(t *testing.T) {
	r, _ := newTestResolver(nil, nil, nil, nil)
	if _, err := r.ResolveFilePermissions(context.Background(), "nope", nil); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

// ---- checks ----

func TestCheckPermission(t *testing.T) {
	users := &fakeUserRepo{users: map[string]*directory.User{
		"insider":  {ID: "insider", CompanyID: companyA},
		"engineer": {ID: "engineer", CompanyID: companyA, DepartmentIDs: []string{deptEng}},
		"outsider": {ID: "outsider", CompanyID: "company-b"},
		"granted":  {ID: "granted", CompanyID: "company-b"},
	}}
	folders := &fakeFolderRepo{folders: map[string]*docstore.Folder{
		"open": companyFolder("open", nil),
		"eng": {
			ID: "eng", CompanyID: companyA, ScopeLevel: docstore.ScopeDepartment,
			DepartmentID: strPtr(deptEng), Name: "eng",
		},
		"shared": companyFolder("shared", nil, entry("granted", docstore.PermissionRead)),
		"div": {
			ID: "div", CompanyID: companyA, ScopeLevel: docstore.ScopeDivision,
			DivisionID: strPtr("div-1"), Name: "div",
		},
	}}
	folders.folders["shared"].CompanyID = "company-c" // explicit entries cross company lines

	r, _ := newTestResolver(users, folders, nil, nil)
	ctx := context.Background()

	tests := []struct {
		name       string
		userID     string
		resourceID string
		permission docstore.PermissionKind
		want       bool
	}{
		{"company scope grants insider", "insider", "open", docstore.PermissionRead, true},
		{"company scope denies outsider", "outsider", "open", docstore.PermissionRead, false},
		{"department scope grants member", "engineer", "eng", docstore.PermissionWrite, true},
		{"department scope denies non-member", "insider", "eng", docstore.PermissionRead, false},
		{"explicit entry grants without scope", "granted", "shared", docstore.PermissionRead, true},
		{"explicit entry limited to held kinds", "granted", "shared", docstore.PermissionWrite, false},
		{"division scope grants nobody implicitly", "insider", "div", docstore.PermissionRead, false},
		{"unknown user denied", "ghost", "open", docstore.PermissionRead, false},
		{"unknown folder denied", "insider", "missing", docstore.PermissionRead, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.CheckPermission(ctx, tt.userID, docstore.ResourceFolder, tt.resourceID, tt.permission)
			if got != tt.want {
				t.Errorf("CheckPermission(%s, %s, %s) = %v, want %v",
					tt.userID, tt.resourceID, tt.permission, got, tt.want)
			}
		})
	}
}

func TestCheckPermission_InheritedGrant(t *testing.T) {
	users := &fakeUserRepo{users: map[string]*directory.User{
		"visitor": {ID: "visitor", CompanyID: "company-b"},
	}}
	folders := &fakeFolderRepo{folders: map[string]*docstore.Folder{
		"root":  companyFolder("root", nil, entry("visitor", docstore.PermissionRead)),
		"child": companyFolder("child", strPtr("root")),
	}}
	r, _ := newTestResolver(users, folders, nil, nil)

	if !r.CheckPermission(context.Background(), "visitor", docstore.ResourceFolder, "child", docstore.PermissionRead) {
		t.Error("inherited entry should grant read on child")
	}
	if r.CheckPermission(context.Background(), "visitor", docstore.ResourceFolder, "child", docstore.PermissionWrite) {
		t.Error("inherited entry should not grant write")
	}
}

func TestCheckPermission_ScopeSurvivesResolutionFailure(t *testing.T) {
	// The leaf folder loads, but its parent fails: the scope grant must
	// still win because scope is checked before explicit resolution.
	users := &fakeUserRepo{users: map[string]*directory.User{
		"insider": {ID: "insider", CompanyID: companyA},
	}}
	folders := &fakeFolderRepo{
		folders: map[string]*docstore.Folder{
			"root":  companyFolder("root", nil),
			"child": companyFolder("child", strPtr("root")),
		},
		errAfter: 1,
	}
	r, _ := newTestResolver(users, folders, nil, nil)

	if !r.CheckPermission(context.Background(), "insider", docstore.ResourceFolder, "child", docstore.PermissionRead) {
		t.Error("scope-based grant must not be masked by a failing resolution")
	}
}

func TestCheckPermission_FileViaAnyLink(t *testing.T) {
	users := &fakeUserRepo{users: map[string]*directory.User{
		"reader": {ID: "reader", CompanyID: "company-b"},
	}}
	files := &fakeFileRepo{files: map[string]*docstore.File{
		"doc": {ID: "doc", CompanyID: companyA, ScopeLevel: docstore.ScopeCompany, Name: "doc"},
	}}
	links := &fakeLinkRepo{links: map[linkKey]*docstore.ResourceLink{
		{"doc", "f1"}: {FileID: "doc", FolderID: "f1"},
		{"doc", "f2"}: {FileID: "doc", FolderID: "f2", Permissions: []docstore.PermissionEntry{entry("reader", docstore.PermissionRead)}},
	}}
	r, _ := newTestResolver(users, nil, files, links)

	if !r.CheckPermission(context.Background(), "reader", docstore.ResourceFile, "doc", docstore.PermissionRead) {
		t.Error("a grant on any link should authorize the file")
	}
	if r.CheckPermission(context.Background(), "reader", docstore.ResourceFile, "doc", docstore.PermissionDelete) {
		t.Error("ungranted kind should be denied")
	}
}

func TestCheckPermission_StorageErrorDenies(t *testing.T) {
	users := &fakeUserRepo{err: errors.New("connection refused")}
	r, _ := newTestResolver(users, nil, nil, nil)

	if r.CheckPermission(context.Background(), "anyone", docstore.ResourceFolder, "any", docstore.PermissionRead) {
		t.Error("storage failure must deny, never grant")
	}
}

// ---- updates ----

func TestUpdateFolderPermissions(t *testing.T) {
	folders := &fakeFolderRepo{folders: map[string]*docstore.Folder{
		"f": companyFolder("f", nil, entry("old", docstore.PermissionManage)),
	}}
	r, auditor := newTestResolver(nil, folders, nil, nil)

	entries := []docstore.PermissionEntry{entry("new", docstore.PermissionRead)}
	folder, err := r.UpdateFolderPermissions(context.Background(), "f", entries, "admin")
	if err != nil {
		t.Fatalf("UpdateFolderPermissions: %v", err)
	}

	// Whole-list replacement: the old entry is gone, not merged.
	if !reflect.DeepEqual(folder.Permissions, entries) {
		t.Errorf("permissions = %+v, want %+v", folder.Permissions, entries)
	}

	if len(auditor.changes) != 1 {
		t.Fatalf("auditor recorded %d changes, want 1", len(auditor.changes))
	}
	change := auditor.changes[0]
	if change.ResourceType != docstore.ResourceFolder || change.ResourceID != "f" || change.ActorID != "admin" {
		t.Errorf("audit change = %+v", change)
	}
}

func TestUpdateFolderPermissions_InvalidEntriesRejected(t *testing.T) {
	folders := &fakeFolderRepo{folders: map[string]*docstore.Folder{
		"f": companyFolder("f", nil),
	}}
	r, auditor := newTestResolver(nil, folders, nil, nil)

	tests := []struct {
		name    string
		entries []docstore.PermissionEntry
	}{
		{"empty user id", []docstore.PermissionEntry{entry("", docstore.PermissionRead)}},
		{"unknown kind", []docstore.PermissionEntry{{UserID: "u", Permissions: []docstore.PermissionKind{"admin"}}}},
		{"duplicate user", []docstore.PermissionEntry{
			entry("u", docstore.PermissionRead),
			entry("u", docstore.PermissionWrite),
		}},
		{"no kinds", []docstore.PermissionEntry{{UserID: "u"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.UpdateFolderPermissions(context.Background(), "f", tt.entries, "admin")
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("error = %v, want ErrValidation", err)
			}
		})
	}
	if len(auditor.changes) != 0 {
		t.Errorf("rejected updates must not be audited, got %d", len(auditor.changes))
	}
}

func TestUpdateFileLinkPermissions(t *testing.T) {
	links := &fakeLinkRepo{links: map[linkKey]*docstore.ResourceLink{
		{"doc", "f1"}: {FileID: "doc", FolderID: "f1"},
	}}
	r, auditor := newTestResolver(nil, nil, nil, links)

	entries := []docstore.PermissionEntry{entry("alice", docstore.PermissionShare)}
	link, err := r.UpdateFileLinkPermissions(context.Background(), "doc", "f1", entries, "admin")
	if err != nil {
		t.Fatalf("UpdateFileLinkPermissions: %v", err)
	}
	if !reflect.DeepEqual(link.Permissions, entries) {
		t.Errorf("permissions = %+v, want %+v", link.Permissions, entries)
	}
	if len(auditor.changes) != 1 {
		t.Fatalf("auditor recorded %d changes, want 1", len(auditor.changes))
	}
	if auditor.changes[0].FolderID == nil || *auditor.changes[0].FolderID != "f1" {
		t.Errorf("audit change missing folder id: %+v", auditor.changes[0])
	}
}

func TestUpdateFileLinkPermissions_MissingLink(t *testing.T) {
	r, _ := newTestResolver(nil, nil, nil, nil)

	_, err := r.UpdateFileLinkPermissions(context.Background(), "doc", "f1",
		[]docstore.PermissionEntry{entry("alice", docstore.PermissionRead)}, "admin")
	if !errors.Is(err, domain.ErrLinkNotFound) {
		t.Errorf("error = %v, want ErrLinkNotFound", err)
	}
	var lnf *domain.LinkNotFoundError
	if !errors.As(err, &lnf) {
		t.Fatalf("error = %T, want *domain.LinkNotFoundError", err)
	}
	if lnf.FileID != "doc" || lnf.FolderID != "f1" {
		t.Errorf("link error ids = %s/%s", lnf.FileID, lnf.FolderID)
	}
}

// ---- merge ----

func TestMergeEntries(t *testing.T) {
	tests := []struct {
		name           string
		inherited, own []docstore.PermissionEntry
		want           []docstore.PermissionEntry
	}{
		{
			name: "own replaces inherited for same user",
			inherited: []docstore.PermissionEntry{
				entry("a", docstore.PermissionRead, docstore.PermissionWrite),
			},
			own:  []docstore.PermissionEntry{entry("a", docstore.PermissionRead)},
			want: []docstore.PermissionEntry{entry("a", docstore.PermissionRead)},
		},
		{
			name:      "disjoint users append",
			inherited: []docstore.PermissionEntry{entry("a", docstore.PermissionRead)},
			own:       []docstore.PermissionEntry{entry("b", docstore.PermissionWrite)},
			want: []docstore.PermissionEntry{
				entry("a", docstore.PermissionRead),
				entry("b", docstore.PermissionWrite),
			},
		},
		{
			name: "nil own keeps inherited",
			inherited: []docstore.PermissionEntry{
				entry("a", docstore.PermissionRead),
			},
			want: []docstore.PermissionEntry{entry("a", docstore.PermissionRead)},
		},
		{
			name: "nil inherited keeps own",
			own:  []docstore.PermissionEntry{entry("b", docstore.PermissionManage)},
			want: []docstore.PermissionEntry{entry("b", docstore.PermissionManage)},
		},
		{
			name: "both empty",
			want: []docstore.PermissionEntry{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mergeEntries(tt.inherited, tt.own)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("mergeEntries() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
