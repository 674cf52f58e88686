package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/telcoflow/circuits_backend/models"
	"github.com/telcoflow/circuits_backend/models/reconcile"
	"github.com/telcoflow/circuits_backend/utils"
	"github.com/telcoflow/circuits_backend/workflow"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

func pathId(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be a positive integer"})
		return 0, false
	}
	return id, true
}

func respondModelError(c *gin.Context, err error) {
	cid, _ := utils.GetCorrelationIdFromContext(c.Request.Context())
	if errors.Is(err, utils.ErrorRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "correlation_id": cid})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "correlation_id": cid})
}

func bindingErrors(c *gin.Context, err error) {
	if fields := utils.ProcessValidationErrors(err); len(fields) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "fields": fields})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
}

// ---- companies ----

func createCompanyHandler(c *gin.Context) {
	var input models.NewCompany
	if err := c.ShouldBindJSON(&input); err != nil {
		bindingErrors(c, err)
		return
	}
	company, err := models.CreateCompany(c.Request.Context(), &input)
	if err != nil {
		respondModelError(c, err)
		return
	}
	c.JSON(http.StatusCreated, company)
}

func updateCompanyHandler(c *gin.Context) {
	id, ok := pathId(c, "id")
	if !ok {
		return
	}
	var input models.NewCompany
	if err := c.ShouldBindJSON(&input); err != nil {
		bindingErrors(c, err)
		return
	}
	company, err := models.UpdateCompany(c.Request.Context(), id, &input)
	if err != nil {
		respondModelError(c, err)
		return
	}
	c.JSON(http.StatusOK, company)
}

func deleteCompanyHandler(c *gin.Context) {
	id, ok := pathId(c, "id")
	if !ok {
		return
	}
	company, err := models.DeleteCompany(c.Request.Context(), id)
	if err != nil {
		respondModelError(c, err)
		return
	}
	c.JSON(http.StatusOK, company)
}

func getCompanyHandler(c *gin.Context) {
	id, ok := pathId(c, "id")
	if !ok {
		return
	}
	company, err := models.GetCompany(c.Request.Context(), id)
	if err != nil {
		respondModelError(c, err)
		return
	}
	c.JSON(http.StatusOK, company)
}

func listCompaniesHandler(c *gin.Context) {
	companies, err := models.GetCompanies(c.Request.Context(), &models.CompanyListFilter{
		Search: c.Query("search"),
		State:  c.Query("state"),
		City:   c.Query("city"),
	})
	if err != nil {
		respondModelError(c, err)
		return
	}
	c.JSON(http.StatusOK, companies)
}

func companyDependenciesHandler(c *gin.Context) {
	id, ok := pathId(c, "id")
	if !ok {
		return
	}
	locations, err := models.GetCompanyDependencies(c.Request.Context(), id)
	if err != nil {
		respondModelError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"locations": locations})
}

// ---- locations ----

func createLocationHandler(c *gin.Context) {
	var input models.NewLocation
	if err := c.ShouldBindJSON(&input); err != nil {
		bindingErrors(c, err)
		return
	}
	location, err := models.CreateLocation(c.Request.Context(), &input)
	if err != nil {
		respondModelError(c, err)
		return
	}
	c.JSON(http.StatusCreated, location)
}

func updateLocationHandler(c *gin.Context) {
	id, ok := pathId(c, "id")
	if !ok {
		return
	}
	var input models.NewLocation
	if err := c.ShouldBindJSON(&input); err != nil {
		bindingErrors(c, err)
		return
	}
	location, err := models.UpdateLocation(c.Request.Context(), id, &input)
	if err != nil {
		respondModelError(c, err)
		return
	}
	c.JSON(http.StatusOK, location)
}

func updateLocationCriticalityHandler(c *gin.Context) {
	id, ok := pathId(c, "id")
	if !ok {
		return
	}
	var input struct {
		Criticality models.LocationCriticality `json:"criticality" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		bindingErrors(c, err)
		return
	}
	location, err := models.UpdateLocationCriticality(c.Request.Context(), id, input.Criticality)
	if err != nil {
		respondModelError(c, err)
		return
	}
	c.JSON(http.StatusOK, location)
}

func deleteLocationHandler(c *gin.Context) {
	id, ok := pathId(c, "id")
	if !ok {
		return
	}
	location, err := models.DeleteLocation(c.Request.Context(), id)
	if err != nil {
		respondModelError(c, err)
		return
	}
	c.JSON(http.StatusOK, location)
}

func getLocationHandler(c *gin.Context) {
	id, ok := pathId(c, "id")
	if !ok {
		return
	}
	location, err := models.GetLocation(c.Request.Context(), id)
	if err != nil {
		respondModelError(c, err)
		return
	}
	c.JSON(http.StatusOK, location)
}

func listLocationsHandler(c *gin.Context) {
	companyId, _ := strconv.Atoi(c.Query("company_id"))
	locations, err := models.GetLocations(c.Request.Context(), &models.LocationListFilter{
		Search:      c.Query("search"),
		State:       c.Query("state"),
		City:        c.Query("city"),
		Criticality: c.Query("criticality"),
		CompanyId:   companyId,
	})
	if err != nil {
		respondModelError(c, err)
		return
	}
	c.JSON(http.StatusOK, locations)
}

func locationDependenciesHandler(c *gin.Context) {
	id, ok := pathId(c, "id")
	if !ok {
		return
	}
	circuits, err := models.GetLocationDependencies(c.Request.Context(), id)
	if err != nil {
		respondModelError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"circuits": circuits})
}

// ---- circuits ----

func createCircuitHandler(c *gin.Context) {
	var input models.NewCircuit
	if err := c.ShouldBindJSON(&input); err != nil {
		bindingErrors(c, err)
		return
	}
	circuit, err := models.CreateCircuit(c.Request.Context(), &input)
	if err != nil {
		respondModelError(c, err)
		return
	}
	c.JSON(http.StatusCreated, circuit)
}

func updateCircuitHandler(c *gin.Context) {
	id, ok := pathId(c, "id")
	if !ok {
		return
	}
	var input models.NewCircuit
	if err := c.ShouldBindJSON(&input); err != nil {
		bindingErrors(c, err)
		return
	}
	circuit, err := models.UpdateCircuit(c.Request.Context(), id, &input)
	if err != nil {
		respondModelError(c, err)
		return
	}
	c.JSON(http.StatusOK, circuit)
}

func deleteCircuitHandler(c *gin.Context) {
	id, ok := pathId(c, "id")
	if !ok {
		return
	}
	circuit, err := models.DeleteCircuit(c.Request.Context(), id)
	if err != nil {
		respondModelError(c, err)
		return
	}
	c.JSON(http.StatusOK, circuit)
}

func getCircuitHandler(c *gin.Context) {
	id, ok := pathId(c, "id")
	if !ok {
		return
	}
	circuit, err := models.GetCircuit(c.Request.Context(), id)
	if err != nil {
		respondModelError(c, err)
		return
	}
	c.JSON(http.StatusOK, circuit)
}

func listCircuitsHandler(c *gin.Context) {
	locationId, _ := strconv.Atoi(c.Query("location_id"))
	circuits, err := models.GetCircuits(c.Request.Context(), &models.CircuitListFilter{
		LocationId: locationId,
		Carrier:    c.Query("carrier"),
		Purpose:    c.Query("purpose"),
		Status:     c.Query("status"),
		Search:     c.Query("search"),
	})
	if err != nil {
		respondModelError(c, err)
		return
	}
	c.JSON(http.StatusOK, circuits)
}

// ---- proposals ----

func createProposalHandler(c *gin.Context) {
	var input models.NewProposal
	if err := c.ShouldBindJSON(&input); err != nil {
		bindingErrors(c, err)
		return
	}
	proposal, err := models.CreateProposal(c.Request.Context(), &input)
	if err != nil {
		respondModelError(c, err)
		return
	}
	c.JSON(http.StatusCreated, proposal)
}

func updateProposalHandler(c *gin.Context) {
	id, ok := pathId(c, "id")
	if !ok {
		return
	}
	var input models.NewProposal
	if err := c.ShouldBindJSON(&input); err != nil {
		bindingErrors(c, err)
		return
	}
	proposal, err := models.UpdateProposal(c.Request.Context(), id, &input)
	if err != nil {
		respondModelError(c, err)
		return
	}
	c.JSON(http.StatusOK, proposal)
}

func updateProposalStatusHandler(c *gin.Context) {
	id, ok := pathId(c, "id")
	if !ok {
		return
	}
	var input struct {
		Status models.ProposalStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		bindingErrors(c, err)
		return
	}
	proposal, err := models.UpdateProposalStatus(c.Request.Context(), id, input.Status)
	if err != nil {
		respondModelError(c, err)
		return
	}
	c.JSON(http.StatusOK, proposal)
}

func deleteProposalHandler(c *gin.Context) {
	id, ok := pathId(c, "id")
	if !ok {
		return
	}
	proposal, err := models.DeleteProposal(c.Request.Context(), id)
	if err != nil {
		respondModelError(c, err)
		return
	}
	c.JSON(http.StatusOK, proposal)
}

func getProposalHandler(c *gin.Context) {
	id, ok := pathId(c, "id")
	if !ok {
		return
	}
	proposal, err := models.GetProposal(c.Request.Context(), id)
	if err != nil {
		respondModelError(c, err)
		return
	}
	c.JSON(http.StatusOK, proposal)
}

func listProposalsHandler(c *gin.Context) {
	companyId, _ := strconv.Atoi(c.Query("company_id"))
	proposals, err := models.GetProposals(c.Request.Context(), companyId, c.Query("status"))
	if err != nil {
		respondModelError(c, err)
		return
	}
	c.JSON(http.StatusOK, proposals)
}

func listProposalLocationsHandler(c *gin.Context) {
	id, ok := pathId(c, "id")
	if !ok {
		return
	}
	locations, err := models.GetProposalLocations(c.Request.Context(), id)
	if err != nil {
		respondModelError(c, err)
		return
	}
	c.JSON(http.StatusOK, locations)
}

func attachProposalLocationHandler(c *gin.Context) {
	proposalId, ok := pathId(c, "id")
	if !ok {
		return
	}
	locationId, ok := pathId(c, "locationId")
	if !ok {
		return
	}
	attached, err := models.AttachProposalLocation(c.Request.Context(), proposalId, locationId)
	if err != nil {
		respondModelError(c, err)
		return
	}
	c.JSON(http.StatusCreated, attached)
}

func detachProposalLocationHandler(c *gin.Context) {
	proposalId, ok := pathId(c, "id")
	if !ok {
		return
	}
	locationId, ok := pathId(c, "locationId")
	if !ok {
		return
	}
	if err := models.DetachProposalLocation(c.Request.Context(), proposalId, locationId); err != nil {
		respondModelError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ---- proposal circuits ----

func proposeCircuitHandler(c *gin.Context) {
	proposalId, ok := pathId(c, "id")
	if !ok {
		return
	}
	var input models.NewProposalCircuit
	if err := c.ShouldBindJSON(&input); err != nil {
		bindingErrors(c, err)
		return
	}
	ctx := c.Request.Context()
	circuit, err := models.GetCircuit(ctx, input.CircuitId)
	if err != nil {
		respondModelError(c, err)
		return
	}

	// patch the cached view with the record as the proposal would carry it
	record := circuit.ToRecord()
	if input.MonthlyCost != nil {
		record.MonthlyCost = *input.MonthlyCost
	}
	if input.InstallationCost != nil {
		record.InstallationCost = *input.InstallationCost
	}
	if input.TermMonths != nil {
		record.ContractTerm = *input.TermMonths
	}

	var proposed *models.ProposalCircuit
	err = workflow.ProposeCircuitOptimistically(ctx, viewCache, proposalId, circuit.LocationId, record,
		func(ctx context.Context) error {
			var sendErr error
			proposed, sendErr = models.ProposeCircuit(ctx, proposalId, &input)
			return sendErr
		})
	if err != nil {
		respondModelError(c, err)
		return
	}
	c.JSON(http.StatusCreated, proposed)
}

func withdrawCircuitHandler(c *gin.Context) {
	proposalId, ok := pathId(c, "id")
	if !ok {
		return
	}
	circuitId, ok := pathId(c, "circuitId")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	var withdrawn *models.ProposalCircuit
	send := func(ctx context.Context) error {
		var sendErr error
		withdrawn, sendErr = models.WithdrawCircuit(ctx, proposalId, circuitId)
		return sendErr
	}

	circuit, err := models.GetCircuit(ctx, circuitId)
	if err != nil {
		// circuit row already gone; no cached record to patch away
		if err := send(ctx); err != nil {
			respondModelError(c, err)
			return
		}
		c.JSON(http.StatusOK, withdrawn)
		return
	}

	err = workflow.WithdrawCircuitOptimistically(ctx, viewCache, proposalId, circuit.LocationId, circuitId, send)
	if err != nil {
		respondModelError(c, err)
		return
	}
	c.JSON(http.StatusOK, withdrawn)
}

func updateProposalCircuitHandler(c *gin.Context) {
	proposalId, ok := pathId(c, "id")
	if !ok {
		return
	}
	circuitId, ok := pathId(c, "circuitId")
	if !ok {
		return
	}
	var input models.NewProposalCircuit
	if err := c.ShouldBindJSON(&input); err != nil {
		bindingErrors(c, err)
		return
	}
	updated, err := models.UpdateProposalCircuit(c.Request.Context(), proposalId, circuitId, &input)
	if err != nil {
		respondModelError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// ---- differences ----

func differencesQuery(c *gin.Context) (reconcile.CircuitFilter, reconcile.CircuitSort) {
	filter := reconcile.CircuitFilter{
		Category: reconcile.FilterCategory(c.DefaultQuery("category", string(reconcile.CategoryAll))),
		Search:   c.Query("search"),
		Carrier:  c.Query("carrier"),
		Purpose:  c.Query("purpose"),
	}
	sortBy := reconcile.CircuitSort{
		Field:     reconcile.SortField(c.DefaultQuery("sort", string(reconcile.SortByCarrier))),
		Direction: reconcile.SortDirection(c.DefaultQuery("direction", string(reconcile.SortAsc))),
	}
	return filter, sortBy
}

func loadDifferences(c *gin.Context) (reconcile.Comparison, bool) {
	proposalId, ok := pathId(c, "id")
	if !ok {
		return reconcile.Comparison{}, false
	}
	locationId, ok := pathId(c, "locationId")
	if !ok {
		return reconcile.Comparison{}, false
	}

	ctx, span := tracer.Start(c.Request.Context(), "proposal.differences",
		trace.WithAttributes(
			attribute.Int("proposal.id", proposalId),
			attribute.Int("location.id", locationId),
		))
	defer span.End()

	coordinator := workflow.NewCoordinator(proposalId, locationId, viewCache, changeNotifier)
	comparison, err := coordinator.LoadComparison(ctx)
	if err != nil {
		span.RecordError(err)
		respondModelError(c, err)
		return reconcile.Comparison{}, false
	}
	return comparison, true
}

func proposalDifferencesHandler(c *gin.Context) {
	comparison, ok := loadDifferences(c)
	if !ok {
		return
	}

	filter, sortBy := differencesQuery(c)
	view := reconcile.Sort(reconcile.Filter(comparison, filter), sortBy)

	c.JSON(http.StatusOK, gin.H{
		"added":    view.Added,
		"removed":  view.Removed,
		"modified": view.Modified,
		"impact":   reconcile.CostImpact(comparison),
		"carriers": reconcile.CarrierOptions(comparison),
	})
}

func proposalDifferencesExportHandler(c *gin.Context) {
	comparison, ok := loadDifferences(c)
	if !ok {
		return
	}

	filter, sortBy := differencesQuery(c)
	view := reconcile.Sort(reconcile.Filter(comparison, filter), sortBy)

	var content []byte
	var filename, contentType string
	var err error
	switch c.DefaultQuery("format", "csv") {
	case "csv":
		content, filename, err = reconcile.ExportCSV(view)
		contentType = "text/csv"
	case "xlsx":
		content, filename, err = reconcile.ExportExcel(view)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be csv or xlsx"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, content)
}

// proposalDifferencesWatchHandler streams a server-sent event whenever the
// pair's circuits change. The client reloads the differences endpoint on each
// event; the stream itself carries no data.
func proposalDifferencesWatchHandler(c *gin.Context) {
	proposalId, ok := pathId(c, "id")
	if !ok {
		return
	}
	locationId, ok := pathId(c, "locationId")
	if !ok {
		return
	}

	coordinator := workflow.NewCoordinator(proposalId, locationId, viewCache, changeNotifier)
	if err := coordinator.Start(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	defer coordinator.Stop()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")

	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case _, open := <-coordinator.Events():
			if !open {
				return false
			}
			c.SSEvent("change", "circuits")
			return true
		case <-heartbeat.C:
			c.SSEvent("heartbeat", time.Now().UTC().Format(time.RFC3339))
			return true
		}
	})
}
