// Copyright 2012-2026 The NATS Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package server

// Holds the root HTML for our monitoring home page.
var rootHTML = `<html lang="en">
  <head>
    <title>readsb-net</title>
    <style type="text/css">
      body { font-family: sans-serif; font-size: 18px; }
      a { margin-left: 32px; }
    </style>
  </head>
  <body>
    <h3>readsb network layer</h3>
    <a href=./varz>varz</a><br/>
    <a href=./connz>connz</a><br/>
    <a href=./connz?state=closed>closed connections</a><br/>
    <a href=./data/aircraft.json>aircraft.json</a><br/>
    <a href=./data/stats.json>stats.json</a><br/>
    <a href=./data/receiver.json>receiver.json</a><br/>
    <a href=./metrics>metrics</a><br/>
  </body>
</html>
`
