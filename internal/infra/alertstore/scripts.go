package alertstore

import "github.com/redis/go-redis/v9"

// KEYS[1] items hash, KEYS[2] events channel; ARGV alert ids.
// Only the named items are rewritten.
var markReadScript = redis.NewScript(`
local updated = 0
for _, id in ipairs(ARGV) do
  local raw = redis.call('HGET', KEYS[1], id)
  if raw then
    local ok, item = pcall(cjson.decode, raw)
    if ok and type(item) == 'table' and item['status'] ~= 'read' then
      item['status'] = 'read'
      redis.call('HSET', KEYS[1], id, cjson.encode(item))
      updated = updated + 1
    end
  end
end
if updated > 0 then
  redis.call('PUBLISH', KEYS[2], 'read')
end
return updated
`)

// KEYS[1] items hash, KEYS[2] order zset, KEYS[3] events channel;
// ARGV[1] id, ARGV[2] JSON item, ARGV[3] score.
var appendScript = redis.NewScript(`
if redis.call('HSETNX', KEYS[1], ARGV[1], ARGV[2]) == 0 then
  return 0
end
redis.call('ZADD', KEYS[2], ARGV[3], ARGV[1])
redis.call('PUBLISH', KEYS[3], 'append')
return 1
`)
