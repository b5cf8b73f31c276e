package dgctest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/glossarium/dgc/pkg/dgc"
)

// Call is one recorded request.
type Call struct {
	Method string
	Path   string
}

// Server is an in-memory catalog behind a real HTTP listener. Point a
// dgc.Client at URL() and exercise it end to end.
type Server struct {
	store *Store
	http  *httptest.Server

	mu         sync.Mutex
	calls      []Call
	failNext   []plannedFailure
	failAlways []plannedFailure
}

type plannedFailure struct {
	method  string // empty matches any
	prefix  string // empty matches any
	status  int
	message string
}

func (f plannedFailure) matches(r *http.Request) bool {
	if f.method != "" && f.method != r.Method {
		return false
	}
	return f.prefix == "" || strings.HasPrefix(r.URL.Path, "/rest/2.0"+f.prefix)
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithStore makes the server serve a caller-owned store instead of a fresh
// one.
func WithStore(store *Store) ServerOption {
	return func(s *Server) { s.store = store }
}

// NewServer starts a mock catalog. Call Close when done.
func NewServer(opts ...ServerOption) *Server {
	s := &Server{}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.store = NewStore()
	}
	s.http = httptest.NewServer(s.router())
	return s
}

// URL returns the server's base URL, suitable for dgc.New.
func (s *Server) URL() string { return s.http.URL }

// Store exposes the backing store for direct seeding and assertions.
func (s *Server) Store() *Store { return s.store }

// Close shuts the listener down.
func (s *Server) Close() { s.http.Close() }

// RequestCount returns how many requests the server has handled.
func (s *Server) RequestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

// Calls returns every recorded request in arrival order.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

// CallsTo counts recorded requests matching method and path prefix
// (relative to the API root, e.g. "/assets"). An empty method matches any.
func (s *Server) CallsTo(method, prefix string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		if method != "" && c.Method != method {
			continue
		}
		if strings.HasPrefix(c.Path, "/rest/2.0"+prefix) {
			n++
		}
	}
	return n
}

// ResetCalls clears the recorded request log.
func (s *Server) ResetCalls() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = nil
}

// FailNext makes the next request matching method and path prefix fail
// with the given status. Queued failures fire once each, in order.
func (s *Server) FailNext(method, prefix string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext = append(s.failNext, plannedFailure{method, prefix, status, message})
}

// FailAlways makes every request matching method and path prefix fail with
// the given status until ClearFailures is called.
func (s *Server) FailAlways(method, prefix string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failAlways = append(s.failAlways, plannedFailure{method, prefix, status, message})
}

// ClearFailures removes all queued and standing failures.
func (s *Server) ClearFailures() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext = nil
	s.failAlways = nil
}

// interceptor records the call and applies planned failures before the
// real handler runs.
func (s *Server) interceptor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls = append(s.calls, Call{Method: r.Method, Path: r.URL.Path})
		var failure *plannedFailure
		for i, f := range s.failNext {
			if f.matches(r) {
				failure = &f
				s.failNext = append(s.failNext[:i], s.failNext[i+1:]...)
				break
			}
		}
		if failure == nil {
			for _, f := range s.failAlways {
				if f.matches(r) {
					failure = &f
					break
				}
			}
		}
		s.mu.Unlock()

		if failure != nil {
			writeError(w, failure.status, failure.message)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.interceptor)

	r.Route("/rest/2.0", func(r chi.Router) {
		r.Post("/assets", s.createAsset)
		r.Get("/assets", s.listAssets)
		r.Get("/assets/{id}", s.getAsset)
		r.Put("/assets/{id}/attributes", s.setAttributes)
		r.Delete("/assets/{id}", s.deleteAsset)

		r.Post("/relations", s.createRelation)
		r.Get("/relations/{id}", s.getRelation)
		r.Patch("/relations/{id}", s.updateRelation)
		r.Delete("/relations/{id}", s.deleteRelation)

		r.Get("/attributes", s.listAttributes)

		r.Post("/domains", s.createDomain)
		r.Get("/domains", s.listDomains)
		r.Get("/domains/{id}", s.getDomain)

		r.Post("/communities", s.createCommunity)
		r.Get("/communities", s.listCommunities)
		r.Get("/communities/{id}", s.getCommunity)

		r.Get("/assetTypes", s.listAssetTypes)
		r.Get("/relationTypes", s.listRelationTypes)
		r.Get("/statuses", s.listStatuses)
		r.Get("/attributeTypes", s.listAttributeTypes)
		r.Get("/domainTypes", s.listDomainTypes)
		r.Get("/roles", s.listRoles)

		r.Post("/search", s.search)

		r.Get("/users/current", s.currentUser)
		r.Get("/users", s.listUsers)
	})
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	if message == "" {
		message = http.StatusText(status)
	}
	writeJSON(w, status, map[string]string{
		"errorCode":   strconv.Itoa(status),
		"userMessage": message,
	})
}

func pageParams(r *http.Request) (offset, limit int) {
	offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	return offset, limit
}

func (s *Server) createAsset(w http.ResponseWriter, r *http.Request) {
	var req dgc.CreateAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}
	if req.Name == "" || req.DomainID == "" {
		writeError(w, http.StatusBadRequest, "name and domainId are required")
		return
	}

	st := s.store
	st.mu.Lock()
	if _, ok := st.domains[req.DomainID]; !ok {
		st.mu.Unlock()
		writeError(w, http.StatusNotFound, "domain not found: "+req.DomainID)
		return
	}
	var typeRef *dgc.Ref
	if req.TypeID != "" || req.TypePublicID != "" {
		for _, t := range st.assetTypes {
			if t.ID == req.TypeID || (req.TypePublicID != "" && t.PublicID == req.TypePublicID) {
				typeRef = &dgc.Ref{ID: t.ID, Name: t.Name}
				break
			}
		}
		if typeRef == nil {
			st.mu.Unlock()
			writeError(w, http.StatusBadRequest, "unknown asset type")
			return
		}
	}
	var statusRef *dgc.Ref
	if req.StatusID != "" {
		for _, stat := range st.statuses {
			if stat.ID == req.StatusID {
				statusRef = &dgc.Ref{ID: stat.ID, Name: stat.Name}
				break
			}
		}
	}
	asset := &dgc.Asset{
		ID:          uuid.NewString(),
		Name:        req.Name,
		DisplayName: req.DisplayName,
		Type:        typeRef,
		Status:      statusRef,
		Domain:      &dgc.Ref{ID: req.DomainID, Name: st.domains[req.DomainID].Name},
	}
	if req.ID != "" {
		asset.ID = req.ID
	}
	st.assets[asset.ID] = asset
	st.assetOrder = append(st.assetOrder, asset.ID)
	st.mu.Unlock()

	writeJSON(w, http.StatusCreated, asset)
}

func (s *Server) getAsset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	asset, ok := s.store.Asset(id)
	if !ok {
		writeError(w, http.StatusNotFound, "asset not found: "+id)
		return
	}
	writeJSON(w, http.StatusOK, asset)
}

func (s *Server) listAssets(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	name, match := q.Get("name"), q.Get("nameMatchMode")
	domainID := q.Get("domainId")

	var filtered []dgc.Asset
	for _, a := range s.store.Assets() {
		if domainID != "" && (a.Domain == nil || a.Domain.ID != domainID) {
			continue
		}
		if name != "" && !nameMatches(a.Name, name, match) {
			continue
		}
		filtered = append(filtered, a)
	}
	offset, limit := pageParams(r)
	writeJSON(w, http.StatusOK, paginate(filtered, offset, limit))
}

func nameMatches(value, pattern, mode string) bool {
	v, p := strings.ToLower(value), strings.ToLower(pattern)
	switch mode {
	case "START":
		return strings.HasPrefix(v, p)
	case "END":
		return strings.HasSuffix(v, p)
	case "ANYWHERE":
		return strings.Contains(v, p)
	default:
		return v == p
	}
}

func (s *Server) setAttributes(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req dgc.SetAttributeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}

	st := s.store
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.assets[id]; !ok {
		writeError(w, http.StatusNotFound, "asset not found: "+id)
		return
	}
	var typeRef *dgc.Ref
	for _, t := range st.attributeTypes {
		if t.ID == req.TypeID || (req.TypePublicID != "" && t.PublicID == req.TypePublicID) {
			typeRef = &dgc.Ref{ID: t.ID, Name: t.Name}
			break
		}
	}
	if typeRef == nil {
		writeError(w, http.StatusBadRequest, "unknown attribute type")
		return
	}
	// Replace existing values of the same type.
	kept := st.attributes[id][:0]
	for _, attr := range st.attributes[id] {
		if attr.Type == nil || attr.Type.ID != typeRef.ID {
			kept = append(kept, attr)
		}
	}
	for _, v := range req.Values {
		kept = append(kept, dgc.Attribute{
			ID:    uuid.NewString(),
			Asset: &dgc.Ref{ID: id},
			Type:  typeRef,
			Value: v,
		})
	}
	st.attributes[id] = kept
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) deleteAsset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	st := s.store
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.assets[id]; !ok {
		writeError(w, http.StatusNotFound, "asset not found: "+id)
		return
	}
	delete(st.assets, id)
	for i, aid := range st.assetOrder {
		if aid == id {
			st.assetOrder = append(st.assetOrder[:i], st.assetOrder[i+1:]...)
			break
		}
	}
	delete(st.attributes, id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listAttributes(w http.ResponseWriter, r *http.Request) {
	assetID := r.URL.Query().Get("assetId")
	attrs := s.store.AssetAttributes(assetID)
	offset, limit := pageParams(r)
	writeJSON(w, http.StatusOK, paginate(attrs, offset, limit))
}

func (s *Server) createRelation(w http.ResponseWriter, r *http.Request) {
	var req dgc.CreateRelationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}

	st := s.store
	st.mu.Lock()
	defer st.mu.Unlock()
	src, ok := st.assets[req.SourceID]
	if !ok {
		writeError(w, http.StatusNotFound, "source asset not found: "+req.SourceID)
		return
	}
	tgt, ok := st.assets[req.TargetID]
	if !ok {
		writeError(w, http.StatusNotFound, "target asset not found: "+req.TargetID)
		return
	}
	var typeRef *dgc.Ref
	for _, t := range st.relationTypes {
		if t.ID == req.TypeID {
			typeRef = &dgc.Ref{ID: t.ID, Name: t.Role}
			break
		}
	}
	if typeRef == nil {
		writeError(w, http.StatusBadRequest, "unknown relation type")
		return
	}
	rel := &dgc.Relation{
		ID:     uuid.NewString(),
		Source: &dgc.Ref{ID: src.ID, Name: src.Name},
		Target: &dgc.Ref{ID: tgt.ID, Name: tgt.Name},
		Type:   typeRef,
	}
	st.relations[rel.ID] = rel
	st.relOrder = append(st.relOrder, rel.ID)
	writeJSON(w, http.StatusCreated, rel)
}

func (s *Server) getRelation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rel, ok := s.store.Relation(id)
	if !ok {
		writeError(w, http.StatusNotFound, "relation not found: "+id)
		return
	}
	writeJSON(w, http.StatusOK, rel)
}

func (s *Server) updateRelation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req dgc.UpdateRelationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}

	st := s.store
	st.mu.Lock()
	defer st.mu.Unlock()
	rel, ok := st.relations[id]
	if !ok {
		writeError(w, http.StatusNotFound, "relation not found: "+id)
		return
	}
	if req.SourceID != "" {
		if src, ok := st.assets[req.SourceID]; ok {
			rel.Source = &dgc.Ref{ID: src.ID, Name: src.Name}
		}
	}
	if req.TargetID != "" {
		if tgt, ok := st.assets[req.TargetID]; ok {
			rel.Target = &dgc.Ref{ID: tgt.ID, Name: tgt.Name}
		}
	}
	writeJSON(w, http.StatusOK, rel)
}

func (s *Server) deleteRelation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	st := s.store
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.relations[id]; !ok {
		writeError(w, http.StatusNotFound, "relation not found: "+id)
		return
	}
	delete(st.relations, id)
	for i, rid := range st.relOrder {
		if rid == id {
			st.relOrder = append(st.relOrder[:i], st.relOrder[i+1:]...)
			break
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) createDomain(w http.ResponseWriter, r *http.Request) {
	var req dgc.CreateDomainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}
	st := s.store
	st.mu.Lock()
	defer st.mu.Unlock()
	com, ok := st.communities[req.CommunityID]
	if !ok {
		writeError(w, http.StatusNotFound, "community not found: "+req.CommunityID)
		return
	}
	dom := &dgc.Domain{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		Community:   &dgc.Ref{ID: com.ID, Name: com.Name},
	}
	st.domains[dom.ID] = dom
	st.domOrder = append(st.domOrder, dom.ID)
	writeJSON(w, http.StatusCreated, dom)
}

func (s *Server) getDomain(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	st := s.store
	st.mu.Lock()
	dom, ok := st.domains[id]
	st.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "domain not found: "+id)
		return
	}
	writeJSON(w, http.StatusOK, dom)
}

func (s *Server) listDomains(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	st := s.store
	st.mu.Lock()
	var items []dgc.Domain
	for _, id := range st.domOrder {
		d := *st.domains[id]
		if name != "" && !strings.EqualFold(d.Name, name) {
			continue
		}
		items = append(items, d)
	}
	st.mu.Unlock()
	offset, limit := pageParams(r)
	writeJSON(w, http.StatusOK, paginate(items, offset, limit))
}

func (s *Server) createCommunity(w http.ResponseWriter, r *http.Request) {
	var req dgc.CreateCommunityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}
	st := s.store
	st.mu.Lock()
	defer st.mu.Unlock()
	com := &dgc.Community{ID: uuid.NewString(), Name: req.Name, Description: req.Description}
	if req.ParentID != "" {
		parent, ok := st.communities[req.ParentID]
		if !ok {
			writeError(w, http.StatusNotFound, "community not found: "+req.ParentID)
			return
		}
		com.Parent = &dgc.Ref{ID: parent.ID, Name: parent.Name}
	}
	st.communities[com.ID] = com
	st.comOrder = append(st.comOrder, com.ID)
	writeJSON(w, http.StatusCreated, com)
}

func (s *Server) getCommunity(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	st := s.store
	st.mu.Lock()
	com, ok := st.communities[id]
	st.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "community not found: "+id)
		return
	}
	writeJSON(w, http.StatusOK, com)
}

func (s *Server) listCommunities(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	st := s.store
	st.mu.Lock()
	var items []dgc.Community
	for _, id := range st.comOrder {
		c := *st.communities[id]
		if name != "" && !strings.EqualFold(c.Name, name) {
			continue
		}
		items = append(items, c)
	}
	st.mu.Unlock()
	offset, limit := pageParams(r)
	writeJSON(w, http.StatusOK, paginate(items, offset, limit))
}

func (s *Server) listAssetTypes(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	st := s.store
	st.mu.Lock()
	var items []dgc.AssetType
	for _, t := range st.assetTypes {
		if name != "" && !strings.EqualFold(t.Name, name) {
			continue
		}
		items = append(items, t)
	}
	st.mu.Unlock()
	offset, limit := pageParams(r)
	writeJSON(w, http.StatusOK, paginate(items, offset, limit))
}

func (s *Server) listRelationTypes(w http.ResponseWriter, r *http.Request) {
	role := r.URL.Query().Get("role")
	coRole := r.URL.Query().Get("coRole")
	st := s.store
	st.mu.Lock()
	var items []dgc.RelationType
	for _, t := range st.relationTypes {
		if role != "" && !strings.EqualFold(t.Role, role) {
			continue
		}
		if coRole != "" && !strings.EqualFold(t.CoRole, coRole) {
			continue
		}
		items = append(items, t)
	}
	st.mu.Unlock()
	offset, limit := pageParams(r)
	writeJSON(w, http.StatusOK, paginate(items, offset, limit))
}

func (s *Server) listStatuses(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	st := s.store
	st.mu.Lock()
	var items []dgc.Status
	for _, t := range st.statuses {
		if name != "" && !strings.EqualFold(t.Name, name) {
			continue
		}
		items = append(items, t)
	}
	st.mu.Unlock()
	offset, limit := pageParams(r)
	writeJSON(w, http.StatusOK, paginate(items, offset, limit))
}

func (s *Server) listAttributeTypes(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	st := s.store
	st.mu.Lock()
	var items []dgc.AttributeType
	for _, t := range st.attributeTypes {
		if name != "" && !strings.EqualFold(t.Name, name) {
			continue
		}
		items = append(items, t)
	}
	st.mu.Unlock()
	offset, limit := pageParams(r)
	writeJSON(w, http.StatusOK, paginate(items, offset, limit))
}

func (s *Server) listDomainTypes(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	st := s.store
	st.mu.Lock()
	var items []dgc.DomainType
	for _, t := range st.domainTypes {
		if name != "" && !strings.EqualFold(t.Name, name) {
			continue
		}
		items = append(items, t)
	}
	st.mu.Unlock()
	offset, limit := pageParams(r)
	writeJSON(w, http.StatusOK, paginate(items, offset, limit))
}

func (s *Server) listRoles(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	st := s.store
	st.mu.Lock()
	var items []dgc.Role
	for _, t := range st.roles {
		if name != "" && !strings.EqualFold(t.Name, name) {
			continue
		}
		items = append(items, t)
	}
	st.mu.Unlock()
	offset, limit := pageParams(r)
	writeJSON(w, http.StatusOK, paginate(items, offset, limit))
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	var req dgc.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}
	needle := strings.ToLower(req.Keywords)
	var hits []dgc.SearchResult
	for _, a := range s.store.Assets() {
		if needle == "" || strings.Contains(strings.ToLower(a.Name), needle) {
			hits = append(hits, dgc.SearchResult{
				Resource: dgc.Ref{ID: a.ID, ResourceType: "Asset", Name: a.Name},
				Score:    1,
			})
		}
	}
	writeJSON(w, http.StatusOK, paginate(hits, req.Offset, req.Limit))
}

func (s *Server) currentUser(w http.ResponseWriter, r *http.Request) {
	st := s.store
	st.mu.Lock()
	user := st.users[0]
	st.mu.Unlock()
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	st := s.store
	st.mu.Lock()
	var items []dgc.User
	for _, u := range st.users {
		if name != "" && !strings.Contains(strings.ToLower(u.UserName), strings.ToLower(name)) {
			continue
		}
		items = append(items, u)
	}
	st.mu.Unlock()
	offset, limit := pageParams(r)
	writeJSON(w, http.StatusOK, paginate(items, offset, limit))
}
