// Package surface generates the embedded map page: a self-contained
// Leaflet document seeded with the nearby and all-points datasets that
// talks back to the host over a websocket. The host never assumes more
// of it than basemap tiles, marker/popup primitives and the message
// channel.
package surface

import (
	"encoding/json"
	"fmt"
	"strings"
)

// TransparentPixel is a 1x1 transparent PNG shown while the default
// photo is still loading, so a popup never renders a broken image.
const TransparentPixel = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mP8Xw8AApsB4oY8p0sAAAAASUVORK5CYII="

// Point is the serialized form a fountain takes inside the page.
type Point struct {
	ID    string  `json:"id"`
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Title string  `json:"title"`
	Note  string  `json:"note"`
	Photo string  `json:"photo"`
}

// Labels are the localized captions for the bottom bar. The favorites
// toggle shows a star glyph; Fav is its tooltip text.
type Labels struct {
	Menu string
	All  string
	Fav  string
}

// Config seeds one rendered page.
type Config struct {
	CenterLat, CenterLng float64
	Nearby               []Point // default dataset, sorted by distance
	All                  []Point // capped full dataset for "show all"
	Labels               Labels
	SocketPath           string // websocket endpoint for the bridge
	TileFilter           string // "", "bw" or "blue"
	DefaultPhoto         string // URL of the bundled default image, may be ""
}

const pageHead = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8"/><meta name="viewport" content="width=device-width, initial-scale=1.0">
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css"/>
<style>
  html,body,#map{height:100%;margin:0}
  .leaflet-control-attribution{font-size:10px}
  .leaflet-tile-pane.filter-bw{filter:grayscale(1) contrast(1.05)}
  .leaflet-tile-pane.filter-blue{filter:grayscale(1) sepia(.15) hue-rotate(190deg) saturate(2)}

  .card{width:260px;font-family:system-ui,-apple-system,Segoe UI,Roboto,Arial,sans-serif}
  .photo{width:100%;height:150px;border-radius:14px;object-fit:cover;display:block;background:#eee}
  .title{font-weight:800;margin:10px 0 6px;font-size:15px}
  .note{color:#333;font-size:13px;margin-top:2px}
  .stars{display:flex;gap:6px;margin:8px 0 2px}
  .star{font-size:20px;line-height:1;cursor:pointer}
  .star.gray{color:#b7bcc6}
  .star.gold{color:#22c55e}

  .pin{display:flex;align-items:center;justify-content:center;width:28px;height:28px;border-radius:50%;box-shadow:0 1px 4px rgba(0,0,0,.2);color:#fff;font-size:16px;line-height:28px;user-select:none;pointer-events:auto;border:2px solid rgba(0,0,0,.15)}
  .pin-blue { background:#0ea5e9; }
  .pin-red  { background:#ef4444; }
  .pin-gold { background:#22c55e; color:#08230f; }

  .locate-btn{width:34px;height:34px;border:1px solid #bbb;border-radius:6px;background:#fff;cursor:pointer;box-shadow:0 1px 4px rgba(0,0,0,.2);font-weight:700}

  .bottom-bar{
    position: fixed; left: 50%; transform: translateX(-50%);
    bottom: 0px; z-index: 99999;
    width: min(700px, calc(100% - 20px));
    background:#6c97b0; border-radius:16px; box-shadow:0 -4px 12px rgba(0,0,0,.12);
    display:grid; grid-template-columns: repeat(3, 1fr); gap:12px; align-items:center;
    padding:12px; padding-bottom: calc(env(safe-area-inset-bottom, 0px) + 8px);
  }
  .bbtn{
    width:100%; background:#f3f4f6; border:1px solid #e5e7eb; border-radius:12px;
    padding:12px 14px; font-weight:700; font-size:14px; color:#111827; text-align:center; cursor:pointer;
  }
  .bbtn:active{ transform: translateY(1px); }
  .bbtn.toggle.active{ background:#0ea5e9; color:#fff; border-color:#0ea5e9; }
  .bbtn.fav.active{ background:#22c55e; color:#fff; border-color:#22c55e; }
</style>
</head>
<body>
<div id="map"></div>
`

const pageScript = `<script>
  var NEARBY_POINTS = %s;
  var ALL_POINTS    = %s;
  var center = [%f, %f];
  var FALLBACK      = %s;
  var DEFAULT_PHOTO = %s;
  var SOCKET_PATH   = %s;
  var TILE_FILTER   = %s;

  var map = L.map('map', { zoomControl:false }).setView(center, 15);

  function ensureBar(){ var bar = document.getElementById('bar'); if (bar){ bar.style.display='grid'; bar.style.zIndex='99999'; } }
  ensureBar(); map.whenReady(ensureBar); setTimeout(ensureBar,0); setTimeout(ensureBar,300);

  var zoom = L.control.zoom({ position:'topright' }).addTo(map);
  var zc = zoom.getContainer(); zc.style.marginTop='50px'; zc.style.marginRight='8px'; zc.style.zIndex = 1000;

  var MyLocate = L.Control.extend({
    onAdd: function(){
      var btn = L.DomUtil.create('button','locate-btn');
      btn.textContent='●'; btn.title='Center on me';
      btn.onclick=function(){ map.setView(center, 15); };
      return btn;
    }
  });
  (new MyLocate({position:'topright'})).addTo(map);

  L.tileLayer('https://tile.openstreetmap.org/{z}/{x}/{y}.png', { maxZoom:19 }).addTo(map);

  function applyFilter(mode){
    var pane = document.querySelector('.leaflet-tile-pane');
    if(!pane) return;
    pane.classList.remove('filter-bw','filter-blue');
    if (mode==='bw') pane.classList.add('filter-bw');
    if (mode==='blue') pane.classList.add('filter-blue');
  }
  applyFilter(TILE_FILTER);
  map.whenReady(function(){ applyFilter(TILE_FILTER); });
  map.on('layeradd',function(){ applyFilter(TILE_FILTER); });

  L.circleMarker(center,{radius:7,weight:2,color:'#0ea5e9',fillColor:'#0ea5e9',fillOpacity:.3})
    .addTo(map).bindPopup('You are here');

  // host <-> surface channel; messages queue until the socket opens
  var pending = [];
  var sock = new WebSocket((location.protocol==='https:'?'wss://':'ws://')+location.host+SOCKET_PATH);
  function send(m){
    var data = JSON.stringify(m);
    if (sock.readyState===1) sock.send(data); else pending.push(data);
  }
  sock.onopen = function(){ pending.forEach(function(d){ sock.send(d); }); pending = []; };
  sock.onmessage = function(ev){
    var m; try { m = JSON.parse(ev.data); } catch(e) { return; }
    if (m.type==='ratingPushed') applyRating(m.id, m.value);
    if (m.type==='navigate') location.assign('/'+m.target);
  };

  var makeIcon = function(c){ return L.divIcon({ className:'pin pin-'+c, html:'💧', iconSize:[28,28], iconAnchor:[14,14] }); };
  var ICONS = { blue:makeIcon('blue'), red:makeIcon('red'), gold:makeIcon('gold') };
  var markersById = Object.create(null);

  var ratingMap = Object.create(null);

  function starsRow(id,v){ v=Math.max(0,Math.min(5,v|0)); var lock=v>0;
    var h='<div class="stars'+(lock?' locked':'')+'" data-id="'+id+'">';
    for(var i=1;i<=5;i++) h += '<span class="'+(i<=v?'star gold':'star gray')+'" data-v="'+i+'">★</span>';
    return h+'</div>';
  }
  function updateStarsInDom(id,v){
    var row=document.querySelector('.stars[data-id="'+id+'"]'); if(!row) return;
    row.classList.toggle('locked', v>0);
    Array.prototype.forEach.call(row.querySelectorAll('.star'), function(el,idx){
      el.classList.toggle('gold', idx+1<=v);
      el.classList.toggle('gray', idx+1>v);
    });
  }
  function setMarkerColorByRating(id,v){
    var m=markersById[id]; if(!m) return;
    if (v>=4) m.setIcon(ICONS.gold); else if (v>=1) m.setIcon(ICONS.red); else m.setIcon(ICONS.blue);
  }
  function applyRating(id,v){
    ratingMap[id]=v||0;
    updateStarsInDom(id,v||0);
    setMarkerColorByRating(id,v||0);
  }

  function clearMarkers(){
    Object.keys(markersById).forEach(function(id){ map.removeLayer(markersById[id]); });
    markersById = Object.create(null);
  }

  function imgTagFor(p){
    var src = (p.photo && p.photo.length>0) ? p.photo : (DEFAULT_PHOTO || FALLBACK);
    return '<img class="photo" src="'+src+'" alt="fountain" '+
           'onerror="this.onerror=null; this.src=\''+FALLBACK+'\';" />';
  }

  function render(points){
    clearMarkers();
    points.forEach(function(p){
      var m=L.marker([p.lat,p.lng], {icon:ICONS.blue, riseOnHover:true, title:p.title}).addTo(map);
      markersById[p.id]=m;

      send({type:'getRating', id:p.id});

      var html =
        '<div class="card" data-id="'+p.id+'">'+
          imgTagFor(p)+
          '<div class="title">'+(p.title||'Fountain')+'</div>'+
          (p.note ? '<div class="note">'+p.note+'</div>' : '')+
          starsRow(p.id, ratingMap[p.id]||0)+
        '</div>';
      m.bindPopup(html,{maxWidth:320,autoPan:true,closeButton:true});

      m.on('popupopen', function(){
        send({type:'getRating', id:p.id});
        var row=document.querySelector('.card[data-id="'+p.id+'"] .stars');
        if(!row) return;
        row.addEventListener('click', function(e){
          if (row.classList.contains('locked')) return;
          var el=e.target; if(!el || !el.getAttribute) return;
          var v=parseInt(el.getAttribute('data-v')||'0',10); if(!v) return;
          applyRating(p.id, v);
          send({type:'setRatingOnce', id:p.id, value:v});
        });
      });
    });
  }

  var showAll=false;
  var favOnly=false;
  render(NEARBY_POINTS);

  var btnMenu=document.getElementById('btnMenu');
  var btnAll =document.getElementById('btnAll');
  var btnFav =document.getElementById('btnFav');

  btnMenu.onclick=function(){ send({ type:'goMenu' }); };

  function applyDataset(){
    var base = showAll ? ALL_POINTS : NEARBY_POINTS;
    var filtered = favOnly ? base.filter(function(p){ return (ratingMap[p.id]||0) > 0; }) : base;
    render(filtered);
  }

  btnAll.onclick=function(){ showAll=!showAll; btnAll.classList.toggle('active', showAll); applyDataset(); };
  btnFav.onclick=function(){ favOnly=!favOnly; btnFav.classList.toggle('active', favOnly); applyDataset(); };
</script>
</body>
</html>`

// Page renders the complete map document.
func Page(cfg Config) string {
	var sb strings.Builder
	sb.WriteString(pageHead)

	fmt.Fprintf(&sb, `<div class="bottom-bar" id="bar">
  <button class="bbtn" id="btnMenu">%s</button>
  <button class="bbtn toggle" id="btnAll">%s</button>
  <button class="bbtn fav" id="btnFav" title="%s">⭐</button>
</div>

<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
`, EscapeHTML(cfg.Labels.Menu), EscapeHTML(cfg.Labels.All), EscapeHTML(cfg.Labels.Fav))

	fmt.Fprintf(&sb, pageScript,
		jsonPoints(cfg.Nearby),
		jsonPoints(cfg.All),
		cfg.CenterLat, cfg.CenterLng,
		jsonStr(TransparentPixel),
		jsonStr(cfg.DefaultPhoto),
		jsonStr(cfg.SocketPath),
		jsonStr(cfg.TileFilter),
	)
	return sb.String()
}

// jsonPoints renders a JSON array literal for embedding in the script.
// json.Marshal escapes <, > and & so titles cannot break out of the tag.
func jsonPoints(ps []Point) string {
	if len(ps) == 0 {
		return "[]"
	}
	b, _ := json.Marshal(ps)
	return string(b)
}

// jsonStr returns a JSON-encoded string for use in JavaScript.
func jsonStr(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

// EscapeHTML escapes HTML special characters.
func EscapeHTML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, `"`, "&#34;")
	s = strings.ReplaceAll(s, "'", "&#39;")
	return s
}
