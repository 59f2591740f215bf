package handler

import (
	"net/http"
	"strconv"

	"github.com/solucomercial/vola-solucoes/internal/middleware"
	"github.com/solucomercial/vola-solucoes/internal/service"
	"github.com/solucomercial/vola-solucoes/pkg/response"

	"github.com/gin-gonic/gin"
)

type SearchHandler struct {
	searchService service.SearchService
}

func NewSearchHandler(searchService service.SearchService) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

func (h *SearchHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/api/search", middleware.RequireAuth(), h.Search)
}

// Search handles GET /api/search?type=flight|hotel with kind-specific params
// @Summary      Search flights or hotels
// @Description  Proxies the upstream travel search, returning a normalized flight list or a hotel property list
// @Tags         search
// @Produce      json
// @Security     BearerAuth
// @Param        type           query     string  true   "flight or hotel"
// @Param        origin         query     string  false  "Origin airport code (flight)"
// @Param        destination    query     string  false  "Destination airport code (flight)"
// @Param        departureDate  query     string  false  "Departure date YYYY-MM-DD (flight)"
// @Param        returnDate     query     string  false  "Return date YYYY-MM-DD (flight)"
// @Param        q              query     string  false  "Location (hotel)"
// @Param        checkIn        query     string  false  "Check-in date (hotel)"
// @Param        checkOut       query     string  false  "Check-out date (hotel)"
// @Param        adults         query     int     false  "Passenger / guest count"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /api/search [get]
func (h *SearchHandler) Search(c *gin.Context) {
	adults, _ := strconv.Atoi(c.DefaultQuery("adults", "1"))

	switch c.Query("type") {
	case "flight":
		results, err := h.searchService.SearchFlights(c.Request.Context(), service.FlightSearchParams{
			Origin:        c.Query("origin"),
			Destination:   c.Query("destination"),
			DepartureDate: c.Query("departureDate"),
			ReturnDate:    c.Query("returnDate"),
			Adults:        adults,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.Success(http.StatusOK, results))

	case "hotel":
		results, err := h.searchService.SearchHotels(c.Request.Context(), service.HotelSearchParams{
			Location: c.Query("q"),
			CheckIn:  c.Query("checkIn"),
			CheckOut: c.Query("checkOut"),
			Adults:   adults,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.Success(http.StatusOK, results))

	default:
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "type must be flight or hotel"))
	}
}
